package annotationengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docenthq/docent/internal/models"
)

func TestHighlightVariantsEquivalent(t *testing.T) {
	// All five grammar variants with the same numbers must resolve to the
	// same spatial record.
	variants := map[string]string{
		"coord-first":   "[HIGHLIGHT 100 200 300 50 1]",
		"page-first":    "[HIGHLIGHT 1 100 200 300 50]",
		"implicit-page": "[HIGHLIGHT 100 200 300 50]",
		"colon":         "[HIGHLIGHT: 100, 200, 300, 50, 1]",
		"key-value":     "[HIGHLIGHT x=100 y=200 w=300 h=50 page=1]",
	}

	for name, input := range variants {
		t.Run(name, func(t *testing.T) {
			_, rec := recognize(input, 1)
			require.Len(t, rec.matches, 1)

			a, ok := normalizeMatch(rec.matches[0])
			require.True(t, ok)
			assert.Equal(t, models.AnnotationHighlight, a.Type)
			assert.Equal(t, 1, a.Page)
			assert.Equal(t, 100, a.X)
			assert.Equal(t, 200, a.Y)
			assert.Equal(t, 300, a.Width)
			assert.Equal(t, 50, a.Height)
		})
	}
}

func TestCircleVariantsEquivalent(t *testing.T) {
	variants := map[string]string{
		"coord-first":   "[CIRCLE 200 300 50 2]",
		"page-first":    "[CIRCLE 2 200 300 50]",
		"implicit-page": "[CIRCLE 200 300 50]",
		"colon":         "[CIRCLE: 200, 300, 50, 2]",
		"key-value":     "[CIRCLE x=200 y=300 r=50 page=2]",
	}

	for name, input := range variants {
		t.Run(name, func(t *testing.T) {
			_, rec := recognize(input, 2)
			require.Len(t, rec.matches, 1)

			a, ok := normalizeMatch(rec.matches[0])
			require.True(t, ok)
			assert.Equal(t, models.AnnotationCircle, a.Type)
			assert.Equal(t, 2, a.Page)
			assert.Equal(t, 200, a.X)
			assert.Equal(t, 300, a.Y)
			assert.Equal(t, 50, a.Radius)
		})
	}
}

func TestDisambiguation(t *testing.T) {
	t.Run("implausible page falls through to coord-first", func(t *testing.T) {
		// 100 cannot be a page (> 50), so the numbers are coordinates.
		_, rec := recognize("[HIGHLIGHT 100 200 300 50 1]", 7)
		require.Len(t, rec.matches, 1)

		m := rec.matches[0]
		assert.Equal(t, variantCoordFirst, m.Variant)
		assert.Equal(t, 1, m.Page)
		assert.Equal(t, 100, m.X)
	})

	t.Run("plausible page-first wins", func(t *testing.T) {
		_, rec := recognize("[HIGHLIGHT 1 80 120 400 60]", 7)
		require.Len(t, rec.matches, 1)

		m := rec.matches[0]
		assert.Equal(t, variantPageFirst, m.Variant)
		assert.Equal(t, 1, m.Page)
		assert.Equal(t, 80, m.X)
		assert.Equal(t, 120, m.Y)
		assert.Equal(t, 400, m.Width)
		assert.Equal(t, 60, m.Height)
	})

	t.Run("height ratio rejects page-first", func(t *testing.T) {
		// First number is page-plausible but the page-first reading would
		// give height 900 on width 100, failing the 3x guard.
		_, rec := recognize("[HIGHLIGHT 5 10 100 100 900]", 7)
		require.Len(t, rec.matches, 1)
		assert.Equal(t, variantCoordFirst, rec.matches[0].Variant)
		assert.Equal(t, 900, rec.matches[0].Page)
	})

	t.Run("same substring resolved once", func(t *testing.T) {
		_, rec := recognize("[HIGHLIGHT 1 80 120 400 60] and again [HIGHLIGHT 1 80 120 400 60]", 1)
		// Identical raw text is keyed once in the seen-set.
		assert.Len(t, rec.matches, 1)
	})
}

func TestKeyValueForm(t *testing.T) {
	t.Run("missing fields default", func(t *testing.T) {
		_, rec := recognize("[HIGHLIGHT x=150]", 4)
		require.Len(t, rec.matches, 1)

		m := rec.matches[0]
		assert.Equal(t, 150, m.X)
		assert.Equal(t, defaultKVY, m.Y)
		assert.Equal(t, defaultKVWidth, m.Width)
		assert.Equal(t, defaultKVHeight, m.Height)
		assert.Equal(t, 4, m.Page)
	})

	t.Run("long key aliases", func(t *testing.T) {
		_, rec := recognize(`[HIGHLIGHT width=250 height=80 color="#ff0000"]`, 1)
		require.Len(t, rec.matches, 1)
		assert.Equal(t, 250, rec.matches[0].Width)
		assert.Equal(t, 80, rec.matches[0].Height)
		assert.Equal(t, "#ff0000", rec.matches[0].Color)
	})

	t.Run("no spatial key is not a command match", func(t *testing.T) {
		_, rec := recognize(`[HIGHLIGHT page=3]`, 1)
		assert.Empty(t, rec.matches)
		// Still counts as detected command intent for fallback purposes.
		assert.True(t, rec.hadCommands)
	})
}

func TestColorCapture(t *testing.T) {
	_, rec := recognize(`[HIGHLIGHT 100 200 300 50 1 color="rgba(0,128,255,0.4)"]`, 1)
	require.Len(t, rec.matches, 1)

	a, ok := normalizeMatch(rec.matches[0])
	require.True(t, ok)
	assert.Equal(t, "rgba(0,128,255,0.4)", a.Color)
}

func TestGluedKeyword(t *testing.T) {
	_, rec := recognize("[HIGHLIGHT1 100 200 300 50]", 1)
	require.Len(t, rec.matches, 1)

	m := rec.matches[0]
	assert.Equal(t, variantPageFirst, m.Variant)
	assert.Equal(t, 1, m.Page)
	assert.Equal(t, 100, m.X)
}
