package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// RegisterEnum registers tag as a validator accepting exactly the given values.
// Matching is case-sensitive; empty strings are left to "required".
func RegisterEnum(v *validator.Validate, tag string, values []string) error {
	allowed := make(map[string]struct{}, len(values))
	for _, val := range values {
		allowed[val] = struct{}{}
	}
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		_, ok := allowed[val]
		return ok
	})
}
