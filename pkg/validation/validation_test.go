package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"inquiryType" validate:"required,inquiry_type"`
	Body  string `json:"details" validate:"required,min=10,max=1000"`
}

func newTestValidator(t *testing.T) func(any) error {
	t.Helper()
	v := New()
	require.NoError(t, RegisterEnum(v, "inquiry_type", []string{"Column writing", "Other"}))
	return v.Struct
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	validate := newTestValidator(t)

	err := validate(sample{Kind: "Cooking", Body: "short"})
	require.Error(t, err)

	got := FormatValidationErrors(err)
	byField := map[string]string{}
	for _, fe := range got {
		byField[fe.Field] = fe.Message
	}

	assert.Equal(t, "お名前は必須です。", byField["name"])
	assert.Equal(t, "Emailは必須です。", byField["email"])
	assert.Equal(t, "無効なご依頼内容です。", byField["inquiryType"])
	assert.Equal(t, "ご依頼・ご相談詳細は10文字以上1000文字以内で入力してください。", byField["details"])
}

func TestFormatValidationErrorsEmail(t *testing.T) {
	validate := newTestValidator(t)

	err := validate(sample{Name: "Taro", Email: "not-an-email", Kind: "Other", Body: "long enough body"})
	require.Error(t, err)

	got := FormatValidationErrors(err)
	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Field)
	assert.Equal(t, "有効なEmailアドレスを入力してください。", got[0].Message)
}

func TestMaxCountsCharactersNotBytes(t *testing.T) {
	validate := newTestValidator(t)

	err := validate(sample{
		Name:  strings.Repeat("菓", 100),
		Email: "a@example.com",
		Kind:  "Other",
		Body:  strings.Repeat("甘", 10),
	})
	assert.NoError(t, err)
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	got := FormatValidationErrors(assert.AnError)
	require.Len(t, got, 1)
	assert.Equal(t, "body", got[0].Field)
}

func TestEscapeHTML(t *testing.T) {
	in := `<script>alert("x" & 'y')</script>`
	out := EscapeHTML(in)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.NotContains(t, out, `"`)
	assert.Equal(t, "&lt;script&gt;alert(&quot;x&quot; &amp; &#x27;y&#x27;)&lt;&#x2F;script&gt;", out)
	for _, part := range strings.Split(out, "&") {
		if part == "" {
			continue
		}
		assert.Contains(t, part, ";", "every ampersand must start an entity")
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "taro@example.com", NormalizeEmail("  Taro@Example.COM "))
	assert.Equal(t, "no-at-sign", NormalizeEmail(" no-at-sign "))
	assert.Equal(t, "trailing@", NormalizeEmail("trailing@"))
}
