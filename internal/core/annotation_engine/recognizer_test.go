package annotationengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizeCleansProse(t *testing.T) {
	cleaned, rec := recognize("The key claim is here. [HIGHLIGHT 100 200 300 50 1] See above.", 1)
	require.Len(t, rec.matches, 1)
	assert.Equal(t, "The key claim is here.  See above.", cleaned)
}

func TestRecognizeShortCircuit(t *testing.T) {
	t.Run("plain prose untouched", func(t *testing.T) {
		in := "Nothing to see on this fragment at all."
		cleaned, rec := recognize(in, 1)
		assert.Equal(t, in, cleaned)
		assert.Empty(t, rec.matches)
		assert.False(t, rec.hadCommands)
	})

	t.Run("idempotent on cleaned prose", func(t *testing.T) {
		in := "We highlight the importance of margins in this chapter."
		cleaned, rec := recognize(in, 1)
		assert.Equal(t, in, cleaned)
		assert.Empty(t, rec.matches)
	})
}

func TestSplitPending(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		head    string
		pending string
	}{
		{"partial keyword held", "answer text [HIGH", "answer text ", "[HIGH"},
		{"keyword with args held", "see [HIGHLIGHT 1 100 200", "see ", "[HIGHLIGHT 1 100 200"},
		{"bare open bracket held", "see [", "see ", "["},
		{"closed bracket not held", "done [HIGHLIGHT 1 2 3 4]", "done [HIGHLIGHT 1 2 3 4]", ""},
		{"non-command bracket flushed", "see [figure 3 for", "see [figure 3 for", ""},
		{"nav keyword held", "then [NEXT PA", "then ", "[NEXT PA"},
		{"no bracket", "plain text", "plain text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, pending := splitPending(tt.in)
			assert.Equal(t, tt.head, head)
			assert.Equal(t, tt.pending, pending)
		})
	}

	t.Run("oversized buffer flushes as prose", func(t *testing.T) {
		in := "x [HIGHLIGHT " + strings.Repeat("9 ", 120)
		head, pending := splitPending(in)
		assert.Equal(t, in, head)
		assert.Empty(t, pending)
	})
}

func TestChunkBoundarySplit(t *testing.T) {
	// Splitting a command across two fragments must yield exactly the result
	// of the unsplit fragment.
	_, whole := recognize("intro [HIGHLIGHT 1 100 200 300 50] outro", 1)
	require.Len(t, whole.matches, 1)

	head, pending := splitPending("intro [HIGH")
	_, first := recognize(head, 1)
	assert.Empty(t, first.matches)

	combined := pending + "LIGHT 1 100 200 300 50] outro"
	head, pending = splitPending(combined)
	assert.Empty(t, pending)
	_, second := recognize(head, 1)
	require.Len(t, second.matches, 1)

	assert.Equal(t, whole.matches[0].Page, second.matches[0].Page)
	assert.Equal(t, whole.matches[0].X, second.matches[0].X)
	assert.Equal(t, whole.matches[0].Y, second.matches[0].Y)
	assert.Equal(t, whole.matches[0].Width, second.matches[0].Width)
	assert.Equal(t, whole.matches[0].Height, second.matches[0].Height)
}

func TestRecognizeLeftToRightOrder(t *testing.T) {
	_, rec := recognize("[CIRCLE 2 200 300 50] then [HIGHLIGHT 100 200 300 50 1]", 1)
	require.Len(t, rec.matches, 2)
	assert.Equal(t, "circle", string(rec.matches[0].Type))
	assert.Equal(t, "highlight", string(rec.matches[1].Type))
}

func TestRecognizeTextHint(t *testing.T) {
	_, rec := recognize(`[HIGHLIGHT text="Conclusions and future work"]`, 1)
	assert.True(t, rec.hadCommands)
	assert.Empty(t, rec.matches)
	assert.Equal(t, "Conclusions and future work", rec.textHint)
}
