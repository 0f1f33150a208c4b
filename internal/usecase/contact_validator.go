package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"natsu-gallery-backend/internal/domain"
	"natsu-gallery-backend/pkg/validation"
)

// ContactValidator turns a raw payload into a ContactSubmission. It has no
// side effects and is safe for concurrent use.
type ContactValidator struct {
	validate *validator.Validate
}

func NewContactValidator() *ContactValidator {
	v := validation.New()

	types := make([]string, 0, len(domain.InquiryTypes))
	for _, it := range domain.InquiryTypes {
		types = append(types, string(it))
	}
	if err := validation.RegisterEnum(v, "inquiry_type", types); err != nil {
		panic(fmt.Sprintf("register inquiry_type validator: %v", err))
	}

	return &ContactValidator{validate: v}
}

// Validate decodes a JSON payload and validates it. Failures are returned as
// domain.ValidationErrors listing every failing field.
func (cv *ContactValidator) Validate(payload []byte) (*domain.ContactSubmission, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, domain.ValidationErrors{{Field: "body", Message: "リクエスト本文の形式が正しくありません。"}}
	}

	// Fields are decoded one by one so every wrongly typed field is reported,
	// not just the first one encoding/json stops at.
	var req domain.ContactRequest
	fields := []struct {
		name string
		dst  *string
	}{
		{"name", &req.Name},
		{"email", &req.Email},
		{"inquiryType", &req.InquiryType},
		{"details", &req.Details},
	}

	var typeErrs domain.ValidationErrors
	mistyped := make(map[string]bool)
	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok || string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			mistyped[f.name] = true
			typeErrs = append(typeErrs, domain.FieldError{
				Field:   f.name,
				Message: fmt.Sprintf("%sは文字列で入力してください。", validation.Label(f.name)),
			})
		}
	}

	sub, err := cv.ValidateRequest(req)
	if len(typeErrs) == 0 {
		return sub, err
	}

	// A wrongly typed field stays "", so its "required" error is replaced.
	merged := typeErrs
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if !mistyped[fe.Field] {
				merged = append(merged, fe)
			}
		}
	}
	return nil, merged
}

// ValidateRequest trims, normalizes, validates and escapes an already decoded request.
func (cv *ContactValidator) ValidateRequest(req domain.ContactRequest) (*domain.ContactSubmission, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = validation.NormalizeEmail(req.Email)
	req.Details = strings.TrimSpace(req.Details)

	if err := cv.validate.Struct(req); err != nil {
		return nil, domain.ValidationErrors(validation.FormatValidationErrors(err))
	}

	return &domain.ContactSubmission{
		Name:        validation.EscapeHTML(req.Name),
		Email:       req.Email,
		InquiryType: domain.InquiryType(req.InquiryType),
		Details:     validation.EscapeHTML(req.Details),
	}, nil
}
