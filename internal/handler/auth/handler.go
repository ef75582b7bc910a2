package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrasoul/records-api/internal/handler"
	"github.com/astrasoul/records-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("login failed"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}
