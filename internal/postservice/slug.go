package postservice

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars  = regexp.MustCompile(`[^a-z0-9\s_-]`)
	slugSeparatorRuns = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug derives a URL-safe slug from a title: lowercase, strip
// everything outside [a-z0-9 _-] (non-ASCII included), collapse runs of
// whitespace, underscores and hyphens into a single hyphen, and trim
// leading and trailing hyphens.
func GenerateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugSeparatorRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
