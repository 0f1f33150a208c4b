package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated constraint, keyed by the json field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldLabels maps json field names to the labels shown on the contact form.
var FieldLabels = map[string]string{
	"name":        "お名前",
	"email":       "Email",
	"inquiryType": "ご依頼内容",
	"details":     "ご依頼・ご相談詳細",
}

// LengthRules holds the bounds quoted in length messages so min and max read as one range.
var LengthRules = map[string][2]int{
	"name":    {1, 100},
	"details": {10, 1000},
}

// FormatValidationErrors converts validator errors into field errors, one per failing field.
func FormatValidationErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return out
}

func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	label := Label(field)

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%sは必須です。", label)

	case "min", "max", "len":
		if bounds, ok := LengthRules[field]; ok {
			return fmt.Sprintf("%sは%d文字以上%d文字以内で入力してください。", label, bounds[0], bounds[1])
		}
		if e.Tag() == "min" {
			return fmt.Sprintf("%sは%s文字以上で入力してください。", label, e.Param())
		}
		return fmt.Sprintf("%sは%s文字以内で入力してください。", label, e.Param())

	case "email":
		return fmt.Sprintf("有効な%sアドレスを入力してください。", label)

	case "inquiry_type":
		return fmt.Sprintf("無効な%sです。", label)

	default:
		return fmt.Sprintf("%sの形式が正しくありません。(%s)", label, e.Tag())
	}
}

// Label returns the form label for a json field name, or the name itself.
func Label(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
