package annotationengine

import (
	"regexp"
	"sort"
	"strings"
)

// maxPendingBuffer caps the carry-over held between fragments. If a bracket
// grows past this without closing it is not a command; the buffer is flushed
// back into the prose stream.
const maxPendingBuffer = 200

var (
	reCommandToken = regexp.MustCompile(`(?i)\[\s*(?:HIGHLIGHT|CIRCLE)[^\]]*\]`)
	reBracketHint  = regexp.MustCompile(`(?i)(?:title|text)\s*=\s*"([^"]*)"`)
)

// holdKeywords are the bracket keywords whose partial prefix at the end of a
// fragment justifies holding the suffix for the next fragment.
var holdKeywords = []string{
	"HIGHLIGHT",
	"CIRCLE",
	"GO TO PAGE",
	"NEXT PAGE",
	"PREV PAGE",
	"PREVIOUS PAGE",
	"FIRST PAGE",
	"LAST PAGE",
}

// recognition is the per-fragment result handed to the normalizer.
type recognition struct {
	matches     []Match
	hadCommands bool
	textHint    string
}

// recognize runs the grammar table over one fully assembled fragment and
// returns the cleaned prose plus the resolved matches in left-to-right order.
func recognize(text string, currentPage int) (string, recognition) {
	var rec recognition

	// Fragments with no bracket and no keyword substring short-circuit.
	if !strings.Contains(text, "[") &&
		!containsFold(text, "highlight") && !containsFold(text, "circle") {
		return text, rec
	}

	seen := make(map[string]bool)
	for _, rule := range grammarRules {
		for _, idx := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[idx[0]:idx[1]]
			if seen[raw] {
				continue
			}
			m, ok := rule.resolve(submatches(text, idx), currentPage)
			if !ok {
				continue
			}
			m.Raw = raw
			m.Variant = rule.variant
			m.pos = idx[0]
			seen[raw] = true
			rec.matches = append(rec.matches, m)
		}
	}

	sort.SliceStable(rec.matches, func(i, j int) bool {
		return rec.matches[i].pos < rec.matches[j].pos
	})

	rec.hadCommands = reCommandToken.MatchString(text)
	if rec.hadCommands {
		for _, tok := range reCommandToken.FindAllString(text, -1) {
			if h := reBracketHint.FindStringSubmatch(tok); h != nil {
				rec.textHint = h[1]
				break
			}
		}
		for _, m := range rec.matches {
			if rec.textHint == "" && m.TextHint != "" {
				rec.textHint = m.TextHint
			}
		}
	}

	cleaned := reCommandToken.ReplaceAllString(text, "")
	cleaned = stripNavigationTokens(cleaned)
	return cleaned, rec
}

// splitPending separates a fragment into the part that is safe to process now
// and an unterminated command prefix to carry into the next fragment. Only a
// trailing unmatched '[' whose body is still prefix-compatible with a command
// keyword is held.
func splitPending(text string) (head, pending string) {
	i := strings.LastIndex(text, "[")
	if i == -1 {
		return text, ""
	}
	tail := text[i:]
	if strings.Contains(tail, "]") {
		return text, ""
	}
	if len(tail) > maxPendingBuffer {
		return text, ""
	}
	if !holdable(strings.TrimLeft(tail[1:], " \t")) {
		return text, ""
	}
	return text[:i], tail
}

func holdable(body string) bool {
	if body == "" {
		return true
	}
	upper := strings.ToUpper(body)
	for _, kw := range holdKeywords {
		if strings.HasPrefix(upper, kw) || strings.HasPrefix(kw, upper) {
			return true
		}
	}
	return false
}

func submatches(text string, idx []int) []string {
	groups := make([]string, len(idx)/2)
	for i := range groups {
		start, end := idx[2*i], idx[2*i+1]
		if start >= 0 {
			groups[i] = text[start:end]
		}
	}
	return groups
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
