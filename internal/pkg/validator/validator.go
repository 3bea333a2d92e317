package validator

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// FieldErrors keys are the json tag names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(validate.RegisterValidation("trimmin", trimMin))
	must(validate.RegisterValidation("notblank", notBlank))
	must(validate.RegisterValidation("adult", adult))
	must(validate.RegisterValidation("phonedigits", phoneDigits))
	must(validate.RegisterValidation("pwclasses", passwordClasses))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate runs struct validation and returns field -> failed tag.
// Tags are evaluated in declaration order, so each field reports its
// first failing rule only.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		if _, seen := errors[err.Field()]; !seen {
			errors[err.Field()] = err.Tag()
		}
	}
	return errors
}

func trimMin(fl validator.FieldLevel) bool {
	want, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(fl.Field().String())) >= want
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// adult checks a YYYY-MM-DD date of birth against a minimum age of 18.
// Age is calendar-year subtraction only; month and day are ignored.
func adult(fl validator.FieldLevel) bool {
	dob, err := time.Parse("2006-01-02", strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return time.Now().Year()-dob.Year() >= 18
}

func phoneDigits(fl validator.FieldLevel) bool {
	n := 0
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= 10 && n <= 15
}

func passwordClasses(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
