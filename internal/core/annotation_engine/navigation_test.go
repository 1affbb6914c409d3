package annotationengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNavigationBracketForms(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		page   int
		target int
	}{
		{"go to page", "Sure. [GO TO PAGE 12]", 3, 12},
		{"go to page glued", "[GO TO PAGE7]", 3, 7},
		{"next page", "[NEXT PAGE]", 3, 4},
		{"prev page", "[PREV PAGE]", 3, 2},
		{"previous page", "[PREVIOUS PAGE]", 3, 2},
		{"prev clamps at one", "[PREV PAGE]", 1, 1},
		{"first page", "[FIRST PAGE]", 9, 1},
		{"last page sentinel", "[LAST PAGE]", 3, 3 + LastPageOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := ExtractNavigation(tt.in, tt.page)
			require.True(t, nav.HasNavigation)
			require.NotNil(t, nav.TargetPage)
			assert.Equal(t, tt.target, *nav.TargetPage)
			assert.Equal(t, delayBracketMs, nav.DelayMs)
		})
	}
}

func TestExtractNavigationProseForms(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		page   int
		target int
	}{
		{"turn to page", "Let's turn to page 5 for the table.", 2, 5},
		{"jump to page", "jump to page 14", 2, 14},
		{"bare next page", "The proof continues on the next page.", 6, 7},
		{"bare previous page", "As shown on the previous page.", 6, 5},
		{"bare first page", "The abstract is on the first page.", 6, 1},
		{"bare last page", "References are on the last page.", 6, 6 + LastPageOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := ExtractNavigation(tt.in, tt.page)
			require.True(t, nav.HasNavigation)
			require.NotNil(t, nav.TargetPage)
			assert.Equal(t, tt.target, *nav.TargetPage)
			assert.Equal(t, delayProseMs, nav.DelayMs)
		})
	}
}

func TestExtractNavigationPrecedence(t *testing.T) {
	// Explicit bracket beats natural language in the same fragment.
	nav := ExtractNavigation("go to page 9 ... [GO TO PAGE 2]", 1)
	require.True(t, nav.HasNavigation)
	assert.Equal(t, 2, *nav.TargetPage)
	assert.Equal(t, delayBracketMs, nav.DelayMs)
}

func TestExtractNavigationNone(t *testing.T) {
	nav := ExtractNavigation("This paragraph stays on the current page.", 4)
	assert.False(t, nav.HasNavigation)
	assert.Nil(t, nav.TargetPage)
}

func TestStripNavigationTokens(t *testing.T) {
	out := stripNavigationTokens("Moving on. [NEXT PAGE] As promised.")
	assert.Equal(t, "Moving on.  As promised.", out)
}
