package platform

import "strings"

// imeTitlePrefix marks the hidden windows created by the text services
// framework for input method editors
const imeTitlePrefix = "MSCTFIME"

// skippedTitles are shell and input surfaces that are visible top-level
// windows but never user applications. Matching is case-sensitive.
var skippedTitles = map[string]struct{}{
	"":                         {},
	"Program Manager":          {},
	"Windows Input Experience": {},
}

// SkipTitle reports whether a window with this title is left out of
// enumeration.
func SkipTitle(title string) bool {
	if _, ok := skippedTitles[title]; ok {
		return true
	}
	return strings.HasPrefix(title, imeTitlePrefix)
}
