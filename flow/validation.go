package flow

import (
	"github.com/go-playground/validator/v10"
	"regexp"
	"strings"
)

var namePart = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ]{2,}$`)

// RegisterValidations adds the fullname tag: at least two words, letters
// only, two or more letters each.
func RegisterValidations(validate *validator.Validate) error {
	return validate.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return IsFullName(fl.Field().String())
	})
}

func IsFullName(name string) bool {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return false
	}

	for _, part := range parts {
		if !namePart.MatchString(part) {
			return false
		}
	}
	return true
}
