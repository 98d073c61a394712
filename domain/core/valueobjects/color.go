package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TagColor is a #RRGGBB color stored in upper case
type TagColor struct {
	value string
}

// NewTagColor validates a #RRGGBB color, accepting either case
func NewTagColor(s string) (TagColor, error) {
	if !IsHexColor(s) {
		return TagColor{}, fmt.Errorf("color must be a hex color in the form #RRGGBB, got %q", s)
	}
	return TagColor{value: strings.ToUpper(s)}, nil
}

// IsHexColor reports whether s is exactly '#' followed by six hex digits
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func (c TagColor) String() string { return c.value }
