package headhunter

import (
	"regexp"
	"strconv"
)

var (
	scoreMarker = regexp.MustCompile(`SCORE:\s*(\d+)%`)
	barePercent = regexp.MustCompile(`(\d+)%`)
)

// ExtractScore parses the match percentage out of an analysis text. It
// prefers the explicit SCORE marker, falls back to the first bare
// percentage, and returns 0 when neither is present. Scores are clamped
// to 0-100 so a malformed verdict cannot outrank every valid candidate.
func ExtractScore(text string) int {
	m := scoreMarker.FindStringSubmatch(text)
	if m == nil {
		m = barePercent.FindStringSubmatch(text)
	}
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
