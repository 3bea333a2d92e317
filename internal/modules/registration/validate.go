package registration

import (
	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
	"github.com/prasanthpraju/Regeve-sub001/internal/pkg/validator"
)

// messages maps field -> failed validation tag -> what the form shows
// beside that field. Each field surfaces at most one message, the first
// rule that failed.
var messages = map[string]map[string]string{
	"companyName": {
		"required": "Company name is required",
		"trimmin":  "Company name must be at least 2 characters",
	},
	"fullName": {
		"required": "Full name is required",
		"trimmin":  "Full name must be at least 2 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Enter a valid email address",
	},
	"dateOfBirth": {
		"required": "Date of birth is required",
		"adult":    "You must be at least 18 years old",
	},
	"gender": {
		"required": "Select a gender",
		"oneof":    "Select a gender",
	},
	"occupation": {
		"required": "Occupation is required",
		"notblank": "Occupation is required",
	},
	"phoneNumber": {
		"required":    "Phone number is required",
		"phonedigits": "Phone number must have 10 to 15 digits",
	},
	"idCardNumber": {
		"required": "ID card number is required",
		"trimmin":  "ID card number must be at least 5 characters",
	},
	"password": {
		"required":  "Password is required",
		"min":       "Password must be at least 8 characters",
		"pwclasses": "Password must contain a lowercase letter, an uppercase letter and a number",
	},
	"confirmPassword": {
		"required": "Confirm your password",
		"eqfield":  "Passwords do not match",
	},
}

const genericFieldError = "Invalid value"

// Validate maps a draft onto per-field messages. It is pure and
// deterministic: same draft in, same FieldErrors out, and it never panics
// on user input.
func Validate(draft domain.RegistrationDraft) domain.FieldErrors {
	failed := validator.Validate(draft)
	if len(failed) == 0 {
		return domain.FieldErrors{}
	}

	errs := make(domain.FieldErrors, len(failed))
	for field, tag := range failed {
		if msg, ok := messages[field][tag]; ok {
			errs[field] = msg
		} else {
			errs[field] = genericFieldError
		}
	}
	return errs
}

// ValidEmail reports whether the draft email alone would pass validation,
// used to guard the OTP request transition.
func ValidEmail(email string) bool {
	probe := domain.RegistrationDraft{Email: email}
	return !Validate(probe).Has("email")
}
