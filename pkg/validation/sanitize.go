package validation

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// EscapeHTML replaces markup-significant characters with entities so the
// value can be embedded in an HTML email body as-is.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// NormalizeEmail trims the address and case-folds it. Addresses without a
// single "@" are returned trimmed and left for the email rule to reject.
func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return s
	}
	return strings.ToLower(s[:at]) + "@" + strings.ToLower(s[at+1:])
}
