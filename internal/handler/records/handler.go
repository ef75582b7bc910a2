package records

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/handler"
	"github.com/astrasoul/records-api/internal/model"
	"github.com/astrasoul/records-api/internal/service/records"
	apperrors "github.com/astrasoul/records-api/pkg/errors"
)

const dateParamLayout = "2006-01-02"

type Handler struct {
	service *records.Service
	backend config.BackendConfig
}

func NewHandler(service *records.Service, backend config.BackendConfig) *Handler {
	return &Handler{service: service, backend: backend}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	recs := r.Group("/records")
	{
		recs.GET("", h.ListRecords)
		recs.GET("/export", h.ExportRecords)
		recs.POST("/refresh", h.RefreshRecords)
	}
}

func (h *Handler) ListRecords(c *gin.Context) {
	funnel, ok := h.funnel(c)
	if !ok {
		return
	}
	spec, ok := h.parseSpec(c)
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), funnel, spec)
	if err != nil {
		respondUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func (h *Handler) ExportRecords(c *gin.Context) {
	funnel, ok := h.funnel(c)
	if !ok {
		return
	}
	spec, ok := h.parseSpec(c)
	if !ok {
		return
	}

	csvText, filename, err := h.service.Export(c.Request.Context(), funnel, spec)
	if err != nil {
		respondUpstream(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}

func (h *Handler) RefreshRecords(c *gin.Context) {
	funnel, ok := h.funnel(c)
	if !ok {
		return
	}

	recs, err := h.service.Refresh(c.Request.Context(), funnel)
	if err != nil {
		respondUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"count": len(recs)}))
}

func (h *Handler) funnel(c *gin.Context) (string, bool) {
	funnel := strings.TrimSpace(c.Query("funnel"))
	if funnel == "" && len(h.backend.Funnels) > 0 {
		funnel = h.backend.Funnels[0]
	}
	if funnel == "" || !h.backend.AllowsFunnel(funnel) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unknown funnel"))
		return "", false
	}
	return funnel, true
}

// parseSpec sanitizes the query parameters into a well-typed FilterSpec so
// the filter engine never sees raw input. Returns false after writing a 400
// response.
func (h *Handler) parseSpec(c *gin.Context) (model.FilterSpec, bool) {
	spec := model.DefaultFilterSpec()

	if raw := c.Query("date_mode"); raw != "" {
		mode, ok := model.ParseDateMode(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date_mode"))
			return spec, false
		}
		spec.DateMode = mode
	}

	var ok bool
	if spec.CustomFrom, ok = parseDateParam(c, "from"); !ok {
		return spec, false
	}
	if spec.CustomTo, ok = parseDateParam(c, "to"); !ok {
		return spec, false
	}

	spec.SearchText = c.Query("q")

	if raw := strings.ToLower(strings.TrimSpace(c.Query("gender"))); raw != "" {
		switch raw {
		case model.GenderAll, model.GenderMale, model.GenderFemale, model.GenderOther:
			spec.Gender = raw
		default:
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid gender"))
			return spec, false
		}
	}

	spec.MinAmount = parseAmountParam(c.Query("min_amount"))
	spec.MaxAmount = parseAmountParam(c.Query("max_amount"))

	if raw := c.Query("sort_by"); raw != "" {
		switch model.SortField(raw) {
		case model.SortByOrderDate, model.SortByAmount:
			spec.SortField = model.SortField(raw)
		default:
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid sort_by"))
			return spec, false
		}
	}
	if raw := c.Query("sort_dir"); raw != "" {
		switch model.SortDir(raw) {
		case model.SortAsc, model.SortDesc:
			spec.SortDir = model.SortDir(raw)
		default:
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid sort_dir"))
			return spec, false
		}
	}
	return spec, true
}

func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(dateParamLayout, raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+name+" date, expected YYYY-MM-DD"))
		return nil, false
	}
	return &t, true
}

// parseAmountParam keeps only digits before parsing; typed junk in an
// amount box degrades to "no bound" instead of an error.
func parseAmountParam(raw string) *float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}

func respondUpstream(c *gin.Context, err error) {
	if apperrors.IsRetryable(err) {
		c.JSON(http.StatusBadGateway, gin.H{
			"status":    "error",
			"message":   "could not load orders, please retry",
			"retryable": true,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
}
