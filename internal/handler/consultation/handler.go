package consultation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrasoul/records-api/internal/handler"
	"github.com/astrasoul/records-api/internal/model"
	"github.com/astrasoul/records-api/internal/service/consultation"
)

type Handler struct {
	service *consultation.Service
}

func NewHandler(service *consultation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	forms := r.Group("/consultations")
	{
		forms.POST("/validate", h.ValidateForm)
		forms.POST("", h.SubmitForm)
	}
}

// ValidateForm runs the field checks without submitting, for inline form
// feedback. Always 200: an invalid form is a result, not an error.
func (h *Handler) ValidateForm(c *gin.Context) {
	var form model.ConsultationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Validate(&form)))
}

func (h *Handler) SubmitForm(c *gin.Context) {
	var form model.ConsultationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), &form)
	if err != nil {
		c.JSON(http.StatusBadGateway, handler.NewErrorResponse("submission failed, please retry"))
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, &handler.Response{
			Status:  "error",
			Message: "validation failed",
			Data:    result,
		})
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
