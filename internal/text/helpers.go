// Package text holds the small string helpers views use.
package text

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	slugDisallowed = regexp.MustCompile(`[^a-z0-9-_ ]`)
)

// Escape strips markup tags and escapes the remainder for HTML output.
func Escape(s string) string {
	return html.EscapeString(tagPattern.ReplaceAllString(s, ""))
}

// Slug turns a title into a lowercase URL slug: disallowed runes removed,
// underscores and spaces become hyphens, runs of hyphens collapse.
func Slug(s string) string {
	s = strings.ToLower(s)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-_")
}

// Shorten cuts s to at most max characters at a word boundary, appending
// ellipsis when anything was cut. Words that fit stay whole; the word that
// no longer fits is truncated.
func Shorten(s string, max int, ellipsis string) string {
	if len(s) <= max {
		return s
	}
	budget := max - len(ellipsis)
	var result strings.Builder
	for _, part := range strings.Split(s, " ") {
		left := budget - result.Len()
		if left > len(part) {
			result.WriteString(part)
			result.WriteString(" ")
			continue
		}
		if left > 0 {
			result.WriteString(part[:left])
		}
		result.WriteString(ellipsis)
		break
	}
	return result.String()
}

// NullIfEmpty maps empty strings and the literal "null" to nil, so optional
// form values bind as SQL NULL instead of empty text.
func NullIfEmpty(s string) any {
	if s == "" || s == "null" {
		return nil
	}
	return s
}
