package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrasoul/records-api/internal/config"
	consultationService "github.com/astrasoul/records-api/internal/service/consultation"
	"github.com/astrasoul/records-api/pkg/logger"
)

func newTestRouter(submit consultationService.SubmitFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.ConsultationConfig{MinLeadDays: 2, PhoneStripChars: " -()+."}
	svc := consultationService.NewService(cfg, logger.New(nil), submit)
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func validForm() map[string]string {
	day := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	return map[string]string{
		"name":              "Asha Verma",
		"phoneNumber":       "9876543210",
		"email":             "asha@example.com",
		"dateOfBirth":       "1990-04-01",
		"placeOfBirth":      "Mumbai",
		"gender":            "female",
		"preferredDateTime": day + "T11:30",
	}
}

func postJSON(r *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestValidateFormValid(t *testing.T) {
	r := newTestRouter(nil)

	w := postJSON(r, "/api/v1/consultations/validate", validForm())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Valid  bool              `json:"valid"`
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Valid)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidateFormReportsFieldErrors(t *testing.T) {
	r := newTestRouter(nil)

	form := validForm()
	form["phoneNumber"] = "12345"
	form["email"] = "not-an-email"

	w := postJSON(r, "/api/v1/consultations/validate", form)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Valid  bool              `json:"valid"`
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Contains(t, resp.Data.Errors, "phoneNumber")
	assert.Contains(t, resp.Data.Errors, "email")
}

func TestSubmitFormValid(t *testing.T) {
	var got map[string]string
	r := newTestRouter(func(ctx context.Context, fields map[string]string) error {
		got = fields
		return nil
	})

	w := postJSON(r, "/api/v1/consultations", validForm())
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Asha Verma", got["name"])
}

func TestSubmitFormInvalidIs422(t *testing.T) {
	called := false
	r := newTestRouter(func(ctx context.Context, fields map[string]string) error {
		called = true
		return nil
	})

	form := validForm()
	form["name"] = "   "

	w := postJSON(r, "/api/v1/consultations", form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, called)
}

func TestSubmitFormHookFailureIs502(t *testing.T) {
	r := newTestRouter(func(ctx context.Context, fields map[string]string) error {
		return errors.New("checkout unavailable")
	})

	w := postJSON(r, "/api/v1/consultations", validForm())
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSubmitFormMalformedBody(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/consultations", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
