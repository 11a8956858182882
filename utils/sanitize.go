package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user-supplied text (check-in notes, habit
// names) to prevent stored XSS when it is rendered back.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
