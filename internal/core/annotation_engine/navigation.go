package annotationengine

import (
	"regexp"

	"github.com/docenthq/docent/internal/models"
)

// LastPageOffset is the deliberately out-of-range sentinel added to the
// current page for "last page" cues. The extractor does not know the true
// page count; the consumer clamps.
const LastPageOffset = 9999

// Presentation-hint delays. Explicit bracket commands settle slightly faster
// than natural-language cues.
const (
	delayBracketMs = 400
	delayProseMs   = 500
)

var (
	reNavGoTo  = regexp.MustCompile(`(?i)\[\s*GO\s*TO\s*PAGE\s*(\d+)\s*\]`)
	reNavNext  = regexp.MustCompile(`(?i)\[\s*NEXT\s+PAGE\s*\]`)
	reNavPrev  = regexp.MustCompile(`(?i)\[\s*(?:PREV|PREVIOUS)\s+PAGE\s*\]`)
	reNavFirst = regexp.MustCompile(`(?i)\[\s*FIRST\s+PAGE\s*\]`)
	reNavLast  = regexp.MustCompile(`(?i)\[\s*LAST\s+PAGE\s*\]`)

	reProseGoTo  = regexp.MustCompile(`(?i)\b(?:go to|turn to|navigate to|show|open|jump to)\s+page\s+(\d+)\b`)
	reProseNext  = regexp.MustCompile(`(?i)\bnext\s+page\b`)
	reProsePrev  = regexp.MustCompile(`(?i)\bprevious\s+page\b`)
	reProseFirst = regexp.MustCompile(`(?i)\bfirst\s+page\b`)
	reProseLast  = regexp.MustCompile(`(?i)\blast\s+page\b`)
)

var navBracketTokens = []*regexp.Regexp{reNavGoTo, reNavNext, reNavPrev, reNavFirst, reNavLast}

// ExtractNavigation scans one fragment for page-navigation intent. Explicit
// bracket forms take precedence over natural-language phrasing.
func ExtractNavigation(text string, currentPage int) models.NavigationResult {
	if currentPage < 1 {
		currentPage = 1
	}

	if m := reNavGoTo.FindStringSubmatch(text); m != nil {
		return navResult(mustInt(m[1]), delayBracketMs)
	}
	if reNavNext.MatchString(text) {
		return navResult(currentPage+1, delayBracketMs)
	}
	if reNavPrev.MatchString(text) {
		return navResult(maxInt(1, currentPage-1), delayBracketMs)
	}
	if reNavFirst.MatchString(text) {
		return navResult(1, delayBracketMs)
	}
	if reNavLast.MatchString(text) {
		return navResult(currentPage+LastPageOffset, delayBracketMs)
	}

	if m := reProseGoTo.FindStringSubmatch(text); m != nil {
		return navResult(mustInt(m[1]), delayProseMs)
	}
	if reProseNext.MatchString(text) {
		return navResult(currentPage+1, delayProseMs)
	}
	if reProsePrev.MatchString(text) {
		return navResult(maxInt(1, currentPage-1), delayProseMs)
	}
	if reProseFirst.MatchString(text) {
		return navResult(1, delayProseMs)
	}
	if reProseLast.MatchString(text) {
		return navResult(currentPage+LastPageOffset, delayProseMs)
	}

	return models.NavigationResult{}
}

func navResult(target, delayMs int) models.NavigationResult {
	return models.NavigationResult{TargetPage: &target, DelayMs: delayMs, HasNavigation: true}
}

func stripNavigationTokens(text string) string {
	for _, re := range navBracketTokens {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
