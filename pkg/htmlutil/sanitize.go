package htmlutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	// blockTagPattern matches closing block-level tags and line breaks, which
	// become newlines before the markup is stripped.
	blockTagPattern = regexp.MustCompile(`(?i)</(p|div|li|h[1-6])\s*>|<br\s*/?>`)

	multipleSpacesPattern = regexp.MustCompile(`[ \t]{2,}`)
)

// Sanitize removes all markup from user-supplied text and returns plain text.
// Paragraph breaks survive as newlines and entities are decoded.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	result := blockTagPattern.ReplaceAllString(s, "\n")
	result = strictPolicy.Sanitize(result)
	result = html.UnescapeString(result)
	result = strings.ReplaceAll(result, " ", " ")

	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
