package enrich

import "unicode"

// Script heuristics deciding whether a title is worth sending to a
// backend at all. The target language is Chinese; the feeds are
// predominantly Latin-script.
const (
	hanShareThreshold   = 0.3
	latinShareThreshold = 0.8
)

// alreadyInTarget reports whether the title is already (mostly)
// Chinese, so translation would be a wasted request.
func alreadyInTarget(s string) bool {
	var han, letters int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.Is(unicode.Han, r) {
				han++
			}
		}
	}
	if han == 0 || letters == 0 {
		return false
	}
	return float64(han)/float64(letters) >= hanShareThreshold
}

// mixedScript reports whether the title is not predominantly
// Latin-script. Mixed content translates badly, so it passes through.
func mixedScript(s string) bool {
	var latin, letters int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.Is(unicode.Latin, r) {
				latin++
			}
		}
	}
	if letters == 0 {
		return true
	}
	return float64(latin)/float64(letters) < latinShareThreshold
}

// skipEnrichment combines both checks.
func skipEnrichment(title string) bool {
	return alreadyInTarget(title) || mixedScript(title)
}
