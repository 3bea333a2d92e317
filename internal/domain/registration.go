package domain

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// RegistrationDraft holds the in-progress admin registration form values.
// Exactly one draft exists per flow instance; it is reset after a
// successful submission and never persisted.
type RegistrationDraft struct {
	CompanyName     string `json:"companyName" validate:"required,trimmin=2"`
	FullName        string `json:"fullName" validate:"required,trimmin=2"`
	Email           string `json:"email" validate:"required,email"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required,adult"`
	Gender          Gender `json:"gender" validate:"required,oneof=male female other"`
	Occupation      string `json:"occupation" validate:"required,notblank"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,phonedigits"`
	IDCardNumber    string `json:"idCardNumber" validate:"required,trimmin=5"`
	Password        string `json:"password" validate:"required,min=8,pwclasses"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// FieldErrors maps a draft field name (its json tag) to a human-readable
// message. A missing or empty entry means the field is currently valid.
type FieldErrors map[string]string

func (e FieldErrors) Has(field string) bool {
	return e[field] != ""
}

func (e FieldErrors) Empty() bool {
	for _, msg := range e {
		if msg != "" {
			return false
		}
	}
	return true
}

// DraftFields lists the draft field names in form order. The validation
// engine and the presentation layer both iterate in this order.
var DraftFields = []string{
	"companyName",
	"fullName",
	"email",
	"dateOfBirth",
	"gender",
	"occupation",
	"phoneNumber",
	"idCardNumber",
	"password",
	"confirmPassword",
}

// CanonicalGender maps the form enum to the capitalized value the Account
// API stores. "other" is stored as "Others".
func CanonicalGender(g Gender) string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Others"
	}
	return ""
}

// StripNonDigits keeps only ASCII digits, used for phone normalization.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
