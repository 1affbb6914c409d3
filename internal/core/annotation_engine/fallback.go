package annotationengine

import (
	"strings"

	"github.com/docenthq/docent/internal/models"
)

const (
	fallbackX         = 80
	fallbackTitleY    = 120
	fallbackBodyY     = 200
	fallbackHeight    = 40
	fallbackMinWidth  = 160
	fallbackMaxWidth  = 520
	fallbackCharWidth = 7.2
	fallbackColor     = "rgba(255,255,0,0.18)"
)

// synthesizeFallback produces the stand-in highlight emitted when the model
// signaled highlight intent but none of its numeric arguments survived
// normalization. Width is estimated from the optional text hint.
func synthesizeFallback(currentPage int, hint string) models.Annotation {
	if currentPage < 1 {
		currentPage = 1
	}

	y := fallbackBodyY
	if looksLikeTitle(hint) {
		y = fallbackTitleY
	}

	width := clampInt(int(float64(len(strings.TrimSpace(hint)))*fallbackCharWidth), fallbackMinWidth, fallbackMaxWidth)

	return models.Annotation{
		Type:            models.AnnotationHighlight,
		Page:            currentPage,
		X:               fallbackX,
		Y:               y,
		Width:           width,
		Height:          fallbackHeight,
		Color:           fallbackColor,
		AnimationEffect: animationPulse,
		Importance:      "low",
		IsAutomatic:     true,
	}
}

// Short hints without sentence punctuation read as headings.
func looksLikeTitle(hint string) bool {
	h := strings.TrimSpace(hint)
	return h != "" && len(h) <= 60 && !strings.ContainsAny(h, ".!?")
}
