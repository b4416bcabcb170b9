// Package sanitize cleans free text supplied by users before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup, including tags hidden behind entity encoding.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text is the sanitiser used for bios and photo descriptions.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr sanitises an optional value. An input that is empty after
// cleaning becomes nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	if result == "" {
		return nil
	}
	return &result
}

// TrimPtr trims an optional value, mapping blank strings to nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
