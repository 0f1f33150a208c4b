package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"natsu-gallery-backend/internal/domain"
)

func validationErrors(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs
}

func TestValidateAcceptsWellFormedPayload(t *testing.T) {
	cv := NewContactValidator()

	sub, err := cv.Validate([]byte(`{"name":"Taro","email":"taro@example.com","inquiryType":"Create sweets","details":"I'd like a birthday cake."}`))
	require.NoError(t, err)
	assert.Equal(t, "Taro", sub.Name)
	assert.Equal(t, "taro@example.com", sub.Email)
	assert.Equal(t, domain.InquiryCreateSweets, sub.InquiryType)
	assert.Equal(t, "I&#x27;d like a birthday cake.", sub.Details)
}

func TestValidateEscapesAndNormalizes(t *testing.T) {
	cv := NewContactValidator()

	sub, err := cv.ValidateRequest(domain.ContactRequest{
		Name:        "  <b>Hanako</b>  ",
		Email:       "  Hanako@Example.COM ",
		InquiryType: "Food styling",
		Details:     "  Styling for a magazine shoot.  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;Hanako&lt;&#x2F;b&gt;", sub.Name)
	assert.Equal(t, "hanako@example.com", sub.Email)
	assert.Equal(t, "Styling for a magazine shoot.", sub.Details)
}

func TestValidateReportsEveryFailingField(t *testing.T) {
	cv := NewContactValidator()

	_, err := cv.Validate([]byte(`{"name":"","email":"not-an-email","inquiryType":"Other","details":"short"}`))
	verrs := validationErrors(t, err)

	assert.ElementsMatch(t, []string{"name", "email", "details"}, verrs.Fields())
	for _, fe := range verrs {
		switch fe.Field {
		case "name":
			assert.Equal(t, "お名前は必須です。", fe.Message)
		case "email":
			assert.Equal(t, "有効なEmailアドレスを入力してください。", fe.Message)
		case "details":
			assert.Equal(t, "ご依頼・ご相談詳細は10文字以上1000文字以内で入力してください。", fe.Message)
		}
	}
}

func TestValidateLengthBoundaries(t *testing.T) {
	cv := NewContactValidator()
	base := domain.ContactRequest{Name: "Taro", Email: "taro@example.com", InquiryType: "Other", Details: "0123456789"}

	tests := []struct {
		name    string
		mutate  func(r *domain.ContactRequest)
		invalid string
	}{
		{"details exactly 10", func(r *domain.ContactRequest) {}, ""},
		{"details 9", func(r *domain.ContactRequest) { r.Details = "012345678" }, "details"},
		{"details padded to 10 but 9 after trim", func(r *domain.ContactRequest) { r.Details = " 012345678 " }, "details"},
		{"details exactly 1000", func(r *domain.ContactRequest) { r.Details = strings.Repeat("あ", 1000) }, ""},
		{"details 1001", func(r *domain.ContactRequest) { r.Details = strings.Repeat("a", 1001) }, "details"},
		{"name exactly 100 multibyte", func(r *domain.ContactRequest) { r.Name = strings.Repeat("菓", 100) }, ""},
		{"name 101", func(r *domain.ContactRequest) { r.Name = strings.Repeat("n", 101) }, "name"},
		{"name whitespace only", func(r *domain.ContactRequest) { r.Name = "   " }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := cv.ValidateRequest(req)
			if tt.invalid == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.invalid}, validationErrors(t, err).Fields())
		})
	}
}

func TestValidateInquiryTypeIsCaseSensitive(t *testing.T) {
	cv := NewContactValidator()
	req := domain.ContactRequest{Name: "Taro", Email: "taro@example.com", Details: "0123456789"}

	for _, it := range domain.InquiryTypes {
		req.InquiryType = string(it)
		_, err := cv.ValidateRequest(req)
		assert.NoError(t, err, it)
	}

	req.InquiryType = "column writing"
	verrs := validationErrors(t, func() error { _, err := cv.ValidateRequest(req); return err }())
	require.Len(t, verrs, 1)
	assert.Equal(t, "inquiryType", verrs[0].Field)
	assert.Equal(t, "無効なご依頼内容です。", verrs[0].Message)

	req.InquiryType = ""
	verrs = validationErrors(t, func() error { _, err := cv.ValidateRequest(req); return err }())
	assert.Equal(t, "ご依頼内容は必須です。", verrs[0].Message)
}

func TestValidateMalformedJSON(t *testing.T) {
	cv := NewContactValidator()

	for _, body := range []string{``, `{`, `not json`, `[1,2]`} {
		_, err := cv.Validate([]byte(body))
		verrs := validationErrors(t, err)
		require.Len(t, verrs, 1, body)
		assert.Equal(t, "body", verrs[0].Field)
	}
}

func TestValidateWrongFieldType(t *testing.T) {
	cv := NewContactValidator()

	_, err := cv.Validate([]byte(`{"name":42,"email":"taro@example.com","inquiryType":"Other","details":"0123456789"}`))
	verrs := validationErrors(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Equal(t, "お名前は文字列で入力してください。", verrs[0].Message)
}

func TestValidateReportsEveryWronglyTypedField(t *testing.T) {
	cv := NewContactValidator()

	_, err := cv.Validate([]byte(`{"name":1,"email":2,"inquiryType":"Other","details":["a"]}`))
	verrs := validationErrors(t, err)

	assert.Equal(t, domain.ValidationErrors{
		{Field: "name", Message: "お名前は文字列で入力してください。"},
		{Field: "email", Message: "Emailは文字列で入力してください。"},
		{Field: "details", Message: "ご依頼・ご相談詳細は文字列で入力してください。"},
	}, verrs)
}

func TestValidateMixesTypeAndRuleErrors(t *testing.T) {
	cv := NewContactValidator()

	_, err := cv.Validate([]byte(`{"name":true,"email":"bad","inquiryType":"Other","details":"0123456789"}`))
	verrs := validationErrors(t, err)

	require.Len(t, verrs, 2)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Equal(t, "お名前は文字列で入力してください。", verrs[0].Message)
	assert.Equal(t, "email", verrs[1].Field)
	assert.Equal(t, "有効なEmailアドレスを入力してください。", verrs[1].Message)
}

func TestValidateNullBodyReportsRequiredFields(t *testing.T) {
	cv := NewContactValidator()

	_, err := cv.Validate([]byte(`null`))
	assert.ElementsMatch(t, []string{"name", "email", "inquiryType", "details"}, validationErrors(t, err).Fields())
}
