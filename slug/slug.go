// Package slug derives URL-safe post identifiers from free-text titles and
// validates slug well-formedness. It performs no I/O; uniqueness against the
// post store is the caller's concern.
package slug

import (
	"regexp"
	"strings"
)

var (
	reZeroWidth  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	reDisallowed = regexp.MustCompile(`[^\w\s-]`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reHyphenRun  = regexp.MustCompile(`-+`)
	reWellFormed = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Sanitize normalizes free text into slug form: lowercased, invisible
// zero-width characters stripped, everything outside word characters,
// whitespace, and hyphens removed, whitespace converted to single hyphens,
// hyphen runs collapsed, and edge hyphens trimmed.
//
// Sanitize is idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.ToLower(s)
	s = reZeroWidth.ReplaceAllString(s, "")
	s = reDisallowed.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = reHyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Generate derives a slug from a post title. Authors may override the result,
// in which case the override goes back through Sanitize and Validate.
func Generate(title string) string {
	return Sanitize(title)
}

// Validate reports whether s is a well-formed slug. On failure the message
// describes the first violated rule; rules are checked in a fixed order so
// the same input always yields the same message.
func Validate(s string) (bool, string) {
	switch {
	case s == "":
		return false, "Slug is required"
	case len(s) < 3:
		return false, "Slug must be at least 3 characters long"
	case len(s) > 100:
		return false, "Slug must be less than 100 characters"
	case !reWellFormed.MatchString(s):
		return false, "Slug can only contain lowercase letters, numbers, and hyphens"
	case strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-"):
		return false, "Slug cannot start or end with a hyphen"
	case strings.Contains(s, "--"):
		return false, "Slug cannot contain consecutive hyphens"
	}
	return true, ""
}
