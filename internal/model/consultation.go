package model

// ConsultationForm is the personal-details form gating the consultation
// checkout. Field names mirror the form payload.
type ConsultationForm struct {
	Name              string `json:"name" validate:"required"`
	PhoneNumber       string `json:"phoneNumber" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	DateOfBirth       string `json:"dateOfBirth" validate:"required"`
	PlaceOfBirth      string `json:"placeOfBirth" validate:"required"`
	Gender            string `json:"gender" validate:"required,oneof=male female other"`
	PreferredDateTime string `json:"preferredDateTime" validate:"required"`
}

// Fields returns the validated form as a plain field map for the external
// submit hook (checkout, order creation). The validator's job ends here.
func (f *ConsultationForm) Fields() map[string]string {
	return map[string]string{
		"name":              f.Name,
		"phoneNumber":       f.PhoneNumber,
		"email":             f.Email,
		"dateOfBirth":       f.DateOfBirth,
		"placeOfBirth":      f.PlaceOfBirth,
		"gender":            f.Gender,
		"preferredDateTime": f.PreferredDateTime,
	}
}

// ValidationResult carries per-field messages; Valid is true only when
// Errors is empty.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}
