package menu

import (
	"regexp"
	"strings"
)

// plusPadding matches a run of spaces, optionally with ' + ' joiners the
// export leaves between combo components ("PIZZA  +  REFRI").
var plusPadding = regexp.MustCompile(` +(?:\+ +)*`)

// CanonicalName is the join key for a product. Both normalizers call it, so
// any change here applies to both sides of the join at once.
//
//	"  pizza  a " -> "PIZZA A"
//	"combo + refri" -> "COMBO REFRI"
//	"bisnaga garlic." -> "BISNAGA GARLIC" (only with stripTrailingDots)
func CanonicalName(raw string, stripTrailingDots bool) string {
	s := strings.TrimSpace(raw)
	s = plusPadding.ReplaceAllString(s, " ")
	s = strings.ToUpper(s)
	if stripTrailingDots {
		s = strings.TrimSpace(strings.TrimRight(s, "."))
	}
	return s
}
