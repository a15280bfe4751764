package viewmodel

import (
	"fmt"
	"strings"
)

// SanitizeForDisplay removes control characters and collapses whitespace so
// multi-line notes fit on one terminal line.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// Selection renders the selection summary shown above the list.
func Selection(count int) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%d selected", count)
}
