package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML keeps user generated content markup (post bodies) and strips scripts.
func SanitizeHTML(input string) string {
	return strings.TrimSpace(richPolicy.Sanitize(input))
}

// SanitizeText strips all markup, for fields rendered as plain text. The
// policy output is entity encoded, so it is decoded back to the literal text.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(input)))
}
