package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/model"
	"github.com/astrasoul/records-api/pkg/logger"
)

func newTestService(submit SubmitFunc) *Service {
	svc := NewService(config.ConsultationConfig{
		MinLeadDays:     2,
		PhoneStripChars: " -()+.",
	}, logger.New(nil), submit)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 10, 15, 0, 0, 0, time.Local)
	}
	return svc
}

func validForm() *model.ConsultationForm {
	return &model.ConsultationForm{
		Name:              "Asha Verma",
		PhoneNumber:       "9876543210",
		Email:             "asha@example.com",
		DateOfBirth:       "1994-03-02",
		PlaceOfBirth:      "Mumbai",
		Gender:            "female",
		PreferredDateTime: "2024-06-14T10:30",
	}
}

func TestValidateAccepts(t *testing.T) {
	result := newTestService(nil).Validate(validForm())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateRequiredFields(t *testing.T) {
	result := newTestService(nil).Validate(&model.ConsultationForm{})

	assert.False(t, result.Valid)
	assert.Equal(t, "Name is required", result.Errors["name"])
	assert.Equal(t, "Phone number is required", result.Errors["phoneNumber"])
	assert.Equal(t, "Email is required", result.Errors["email"])
	assert.Equal(t, "Date of birth is required", result.Errors["dateOfBirth"])
	assert.Equal(t, "Place of birth is required", result.Errors["placeOfBirth"])
	assert.Equal(t, "Gender is required", result.Errors["gender"])
	assert.Equal(t, "Preferred date and time is required", result.Errors["preferredDateTime"])
}

func TestValidateBlankAfterTrim(t *testing.T) {
	form := validForm()
	form.Name = "   "
	form.PlaceOfBirth = "\t"

	result := newTestService(nil).Validate(form)
	assert.False(t, result.Valid)
	assert.Equal(t, "Name is required", result.Errors["name"])
	assert.Equal(t, "Place of birth is required", result.Errors["placeOfBirth"])
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"plain ten digits", "9876543210", true},
		{"spaces stripped", "98765 43210", true},
		{"punctuation stripped", "123-456-7890", true},
		{"parens and dots stripped", "(123) 456.7890", true},
		{"too short", "98765", false},
		{"too long", "98765432101", false},
		{"letters", "98765abcde", false},
	}

	svc := newTestService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.PhoneNumber = tt.phone
			result := svc.Validate(form)
			if tt.valid {
				assert.NotContains(t, result.Errors, "phoneNumber")
			} else {
				assert.Equal(t, "Please enter a valid 10-digit phone number", result.Errors["phoneNumber"])
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"

	result := newTestService(nil).Validate(form)
	assert.Equal(t, "Please enter a valid email address", result.Errors["email"])
}

func TestValidateGenderEnum(t *testing.T) {
	form := validForm()
	form.Gender = "unknown"

	result := newTestService(nil).Validate(form)
	assert.Equal(t, "Please select a valid gender", result.Errors["gender"])
}

func TestValidateLeadTime(t *testing.T) {
	svc := newTestService(nil)

	tests := []struct {
		name      string
		preferred string
		valid     bool
	}{
		{"exactly at minimum lead", "2024-06-12T09:00", true},
		{"beyond minimum lead", "2024-07-01T09:00", true},
		{"one day short", "2024-06-11T23:59", false},
		{"today", "2024-06-10T18:00", false},
		{"unparseable", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.PreferredDateTime = tt.preferred
			result := svc.Validate(form)
			if tt.valid {
				assert.NotContains(t, result.Errors, "preferredDateTime")
			} else {
				assert.Contains(t, result.Errors, "preferredDateTime")
			}
		})
	}
}

func TestValidateLeadTimeUsesDatePortionOnly(t *testing.T) {
	// early morning on the minimum day passes even though fewer than 48
	// hours remain; only the date portion counts.
	form := validForm()
	form.PreferredDateTime = "2024-06-12T00:01"

	result := newTestService(nil).Validate(form)
	assert.True(t, result.Valid)
}

func TestMinPreferredDateMatchesValidation(t *testing.T) {
	svc := newTestService(nil)
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.Local)

	min := svc.MinPreferredDate(now)
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local), min)
}

func TestSubmit(t *testing.T) {
	t.Run("valid form reaches the hook", func(t *testing.T) {
		var got map[string]string
		svc := newTestService(func(ctx context.Context, fields map[string]string) error {
			got = fields
			return nil
		})

		result, err := svc.Submit(context.Background(), validForm())
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "Asha Verma", got["name"])
		assert.Equal(t, "9876543210", got["phoneNumber"])
	})

	t.Run("invalid form never reaches the hook", func(t *testing.T) {
		called := false
		svc := newTestService(func(ctx context.Context, fields map[string]string) error {
			called = true
			return nil
		})

		form := validForm()
		form.Email = ""
		result, err := svc.Submit(context.Background(), form)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.False(t, called)
	})

	t.Run("hook failure surfaces", func(t *testing.T) {
		svc := newTestService(func(ctx context.Context, fields map[string]string) error {
			return errors.New("checkout unavailable")
		})

		_, err := svc.Submit(context.Background(), validForm())
		require.Error(t, err)
	})
}
