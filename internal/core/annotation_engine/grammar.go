package annotationengine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docenthq/docent/internal/models"
)

type grammarVariant string

const (
	variantPageFirst    grammarVariant = "page-first"
	variantCoordFirst   grammarVariant = "coord-first"
	variantImplicitPage grammarVariant = "implicit-page"
	variantColon        grammarVariant = "colon"
	variantKeyValue     grammarVariant = "key-value"
)

// Heuristics gating the page-first reading of a 5-number highlight (and the
// 4-number circle). A first number above maxPlausiblePage, or a height more
// than maxHeightRatio times the width, means the numbers were almost certainly
// coordinate-first.
const (
	maxPlausiblePage = 50
	maxHeightRatio   = 3
)

// Key=value defaults when a field is omitted from the bracket body.
const (
	defaultKVX      = 80
	defaultKVY      = 200
	defaultKVWidth  = 420
	defaultKVHeight = 60
	defaultKVRadius = 50
)

// Match is one recognized bracket command before normalization. Raw is the
// exact substring matched; the seen-set in the recognizer keys on it so no
// substring is ever resolved by more than one rule.
type Match struct {
	Raw      string
	Variant  grammarVariant
	Type     models.AnnotationType
	Page     int
	X        int
	Y        int
	Width    int
	Height   int
	Radius   int
	Color    string
	TextHint string

	pos int // byte offset in the fragment, for left-to-right emission
}

// grammarRule pairs a pattern with the predicate that decides whether the
// captured numbers belong to this variant. A false return lets a later rule
// claim the same substring, which is how the page-first/coordinate-first
// tie-break works.
type grammarRule struct {
	variant grammarVariant
	re      *regexp.Regexp
	resolve func(groups []string, currentPage int) (Match, bool)
}

// The keyword-to-first-digit gap is \s* everywhere so a glued form like
// HIGHLIGHT1 matches as if the space were present.
var (
	reHighlight5  = regexp.MustCompile(`(?i)\[\s*HIGHLIGHT\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+color\s*=\s*"([^"]*)")?\s*\]`)
	reHighlight4  = regexp.MustCompile(`(?i)\[\s*HIGHLIGHT\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+color\s*=\s*"([^"]*)")?\s*\]`)
	reHighlightC  = regexp.MustCompile(`(?i)\[\s*HIGHLIGHT\s*:\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*color\s*=\s*"([^"]*)")?\s*\]`)
	reHighlightKV = regexp.MustCompile(`(?i)\[\s*HIGHLIGHT((?:\s+\w+\s*=\s*(?:"[^"]*"|[^\s\]]+))+)\s*\]`)

	reCircle4  = regexp.MustCompile(`(?i)\[\s*CIRCLE\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+color\s*=\s*"([^"]*)")?\s*\]`)
	reCircle3  = regexp.MustCompile(`(?i)\[\s*CIRCLE\s*(\d+)\s+(\d+)\s+(\d+)(?:\s+color\s*=\s*"([^"]*)")?\s*\]`)
	reCircleC  = regexp.MustCompile(`(?i)\[\s*CIRCLE\s*:\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*color\s*=\s*"([^"]*)")?\s*\]`)
	reCircleKV = regexp.MustCompile(`(?i)\[\s*CIRCLE((?:\s+\w+\s*=\s*(?:"[^"]*"|[^\s\]]+))+)\s*\]`)

	reKVPair = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|([^\s\]]+))`)
)

// grammarRules is evaluated top to bottom per fragment; order is the
// disambiguation priority.
var grammarRules = []grammarRule{
	{
		variant: variantPageFirst,
		re:      reHighlight5,
		resolve: func(g []string, _ int) (Match, bool) {
			page, x, y, w, h := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4]), mustInt(g[5])
			if page > maxPlausiblePage || h > maxHeightRatio*w {
				return Match{}, false
			}
			return highlightMatch(page, x, y, w, h, g[6]), true
		},
	},
	{
		variant: variantCoordFirst,
		re:      reHighlight5,
		resolve: func(g []string, _ int) (Match, bool) {
			x, y, w, h, page := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4]), mustInt(g[5])
			return highlightMatch(page, x, y, w, h, g[6]), true
		},
	},
	{
		variant: variantImplicitPage,
		re:      reHighlight4,
		resolve: func(g []string, currentPage int) (Match, bool) {
			x, y, w, h := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4])
			return highlightMatch(currentPage, x, y, w, h, g[5]), true
		},
	},
	{
		variant: variantColon,
		re:      reHighlightC,
		resolve: func(g []string, _ int) (Match, bool) {
			x, y, w, h, page := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4]), mustInt(g[5])
			return highlightMatch(page, x, y, w, h, g[6]), true
		},
	},
	{
		variant: variantKeyValue,
		re:      reHighlightKV,
		resolve: resolveHighlightKV,
	},
	{
		variant: variantPageFirst,
		re:      reCircle4,
		resolve: func(g []string, _ int) (Match, bool) {
			page, x, y, r := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4])
			if page > maxPlausiblePage {
				return Match{}, false
			}
			return circleMatch(page, x, y, r, g[5]), true
		},
	},
	{
		variant: variantCoordFirst,
		re:      reCircle4,
		resolve: func(g []string, _ int) (Match, bool) {
			x, y, r, page := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4])
			return circleMatch(page, x, y, r, g[5]), true
		},
	},
	{
		variant: variantImplicitPage,
		re:      reCircle3,
		resolve: func(g []string, currentPage int) (Match, bool) {
			x, y, r := mustInt(g[1]), mustInt(g[2]), mustInt(g[3])
			return circleMatch(currentPage, x, y, r, g[4]), true
		},
	},
	{
		variant: variantColon,
		re:      reCircleC,
		resolve: func(g []string, _ int) (Match, bool) {
			x, y, r, page := mustInt(g[1]), mustInt(g[2]), mustInt(g[3]), mustInt(g[4])
			return circleMatch(page, x, y, r, g[5]), true
		},
	},
	{
		variant: variantKeyValue,
		re:      reCircleKV,
		resolve: resolveCircleKV,
	},
}

func highlightMatch(page, x, y, w, h int, color string) Match {
	return Match{Type: models.AnnotationHighlight, Page: page, X: x, Y: y, Width: w, Height: h, Color: color}
}

func circleMatch(page, x, y, r int, color string) Match {
	return Match{Type: models.AnnotationCircle, Page: page, X: x, Y: y, Radius: r, Color: color}
}

// resolveHighlightKV accepts any subset and order of keys, but at least one
// spatial key must be present or the bracket is not treated as a command.
func resolveHighlightKV(g []string, currentPage int) (Match, bool) {
	kv := parseKVPairs(g[1])

	_, hasX := kv["x"]
	_, hasY := kv["y"]
	hasW := hasAny(kv, "w", "width")
	hasH := hasAny(kv, "h", "height")
	if !hasX && !hasY && !hasW && !hasH {
		return Match{}, false
	}

	m := highlightMatch(
		kvInt(kv, currentPage, "page"),
		kvInt(kv, defaultKVX, "x"),
		kvInt(kv, defaultKVY, "y"),
		kvInt(kv, defaultKVWidth, "w", "width"),
		kvInt(kv, defaultKVHeight, "h", "height"),
		kv["color"],
	)
	m.TextHint = kvHint(kv)
	return m, true
}

func resolveCircleKV(g []string, currentPage int) (Match, bool) {
	kv := parseKVPairs(g[1])

	_, hasX := kv["x"]
	_, hasY := kv["y"]
	hasR := hasAny(kv, "r", "radius")
	if !hasX && !hasY && !hasR {
		return Match{}, false
	}

	m := circleMatch(
		kvInt(kv, currentPage, "page"),
		kvInt(kv, defaultKVX, "x"),
		kvInt(kv, defaultKVY, "y"),
		kvInt(kv, defaultKVRadius, "r", "radius"),
		kv["color"],
	)
	m.TextHint = kvHint(kv)
	return m, true
}

func parseKVPairs(body string) map[string]string {
	kv := make(map[string]string)
	for _, pair := range reKVPair.FindAllStringSubmatch(body, -1) {
		key := strings.ToLower(pair[1])
		val := pair[2]
		if val == "" {
			val = pair[3]
		}
		kv[key] = val
	}
	return kv
}

func hasAny(kv map[string]string, keys ...string) bool {
	for _, k := range keys {
		if _, ok := kv[k]; ok {
			return true
		}
	}
	return false
}

// kvInt returns the first present key parsed as an integer, or def. A key
// present with a non-numeric value counts as absent.
func kvInt(kv map[string]string, def int, keys ...string) int {
	for _, k := range keys {
		if v, ok := kv[k]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return def
}

func kvHint(kv map[string]string) string {
	if t, ok := kv["title"]; ok {
		return t
	}
	return kv["text"]
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
