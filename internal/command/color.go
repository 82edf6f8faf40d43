package command

import (
	"regexp"
	"strings"
)

var hexColorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// ParseHexColor implements spec.md §4.3: six hex digits, with an optional
// leading '#'. Returns the lowercased six digits without the '#'.
func ParseHexColor(s string) (string, error) {
	trimmed := strings.TrimPrefix(s, "#")
	if !hexColorRe.MatchString(trimmed) {
		return "", parseErrorf("invalid color %q: expected 6 hex digits, optionally prefixed with '#'", s)
	}
	return strings.ToLower(trimmed), nil
}
