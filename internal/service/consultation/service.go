package consultation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/model"
	"github.com/astrasoul/records-api/pkg/logger"
)

// SubmitFunc receives the validated field map. The service's job ends at
// validation; checkout, order creation and navigation live behind this
// hook.
type SubmitFunc func(ctx context.Context, fields map[string]string) error

var tenDigits = regexp.MustCompile(`^[0-9]{10}$`)

// Layouts accepted for the preferred appointment slot. The first is what
// an HTML datetime-local input produces.
var preferredLayouts = []string{
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

type Service struct {
	cfg      config.ConsultationConfig
	validate *validator.Validate
	log      *logger.Logger
	submit   SubmitFunc
	now      func() time.Time
}

func NewService(cfg config.ConsultationConfig, log *logger.Logger, submit SubmitFunc) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		cfg:      cfg,
		validate: v,
		log:      log,
		submit:   submit,
		now:      time.Now,
	}
}

// MinPreferredDate is the earliest selectable appointment day. The form's
// date picker hint and the validation rule both read this, so they cannot
// drift apart.
func (s *Service) MinPreferredDate(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, s.cfg.MinLeadDays)
}

// Validate checks the form and returns per-field messages. It never
// errors: an invalid form is a normal outcome, not an exception.
func (s *Service) Validate(form *model.ConsultationForm) model.ValidationResult {
	fieldErrors := make(map[string]string)

	if err := s.validate.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				if _, seen := fieldErrors[fe.Field()]; !seen {
					fieldErrors[fe.Field()] = fieldMessage(fe.Field(), fe.Tag())
				}
			}
		}
	}

	// required fields must also be non-blank after trim
	if _, seen := fieldErrors["name"]; !seen && strings.TrimSpace(form.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if _, seen := fieldErrors["placeOfBirth"]; !seen && strings.TrimSpace(form.PlaceOfBirth) == "" {
		fieldErrors["placeOfBirth"] = "Place of birth is required"
	}

	if _, seen := fieldErrors["phoneNumber"]; !seen {
		if !tenDigits.MatchString(s.stripPhone(form.PhoneNumber)) {
			fieldErrors["phoneNumber"] = "Please enter a valid 10-digit phone number"
		}
	}

	if _, seen := fieldErrors["preferredDateTime"]; !seen {
		if msg := s.checkPreferred(form.PreferredDateTime); msg != "" {
			fieldErrors["preferredDateTime"] = msg
		}
	}

	return model.ValidationResult{
		Valid:  len(fieldErrors) == 0,
		Errors: fieldErrors,
	}
}

// Submit validates the form and, when valid, hands the field map to the
// submit hook. The returned result is always populated so callers can
// render field messages either way.
func (s *Service) Submit(ctx context.Context, form *model.ConsultationForm) (model.ValidationResult, error) {
	result := s.Validate(form)
	if !result.Valid {
		return result, nil
	}
	if s.submit == nil {
		return result, nil
	}
	if err := s.submit(ctx, form.Fields()); err != nil {
		return result, fmt.Errorf("submit consultation: %w", err)
	}
	return result, nil
}

// stripPhone removes the configured characters before the 10-digit check.
// Which characters to strip is deployment configuration; the default set
// covers whitespace and common punctuation.
func (s *Service) stripPhone(phone string) string {
	strip := s.cfg.PhoneStripChars
	if strip == "" {
		strip = " "
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(strip, r) {
			return -1
		}
		return r
	}, phone)
}

func (s *Service) checkPreferred(raw string) string {
	var selected time.Time
	var parsed bool
	for _, layout := range preferredLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			selected = t
			parsed = true
			break
		}
	}
	if !parsed {
		return "Please enter a valid preferred date and time"
	}

	// only the date portion is held to the lead-time rule
	selectedDay := time.Date(selected.Year(), selected.Month(), selected.Day(), 0, 0, 0, 0, selected.Location())
	minDay := s.MinPreferredDate(s.now())
	if selectedDay.Before(minDay) {
		return fmt.Sprintf("Please select a date from %s onwards", minDay.Format("02 Jan 2006"))
	}
	return ""
}

func fieldMessage(field, tag string) string {
	switch field {
	case "name":
		return "Name is required"
	case "phoneNumber":
		return "Phone number is required"
	case "email":
		if tag == "email" {
			return "Please enter a valid email address"
		}
		return "Email is required"
	case "dateOfBirth":
		return "Date of birth is required"
	case "placeOfBirth":
		return "Place of birth is required"
	case "gender":
		if tag == "oneof" {
			return "Please select a valid gender"
		}
		return "Gender is required"
	case "preferredDateTime":
		return "Preferred date and time is required"
	}
	return fmt.Sprintf("%s is invalid", field)
}
