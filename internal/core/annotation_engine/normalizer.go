package annotationengine

import (
	"github.com/docenthq/docent/internal/models"
)

// Spatial bounds for the 800x1200 page canvas.
const (
	maxX = 800
	maxY = 1200

	minWidth  = 10
	maxWidth  = 1000
	minHeight = 10
	maxHeight = 400
	minRadius = 5
	maxRadius = 400
)

const (
	defaultHighlightColor = "rgba(255,255,0,0.3)"
	defaultCircleColor    = "rgba(255,0,0,0.7)"
	animationPulse        = "pulse"
)

// normalizeMatch converts a resolved match into a bounds-checked annotation.
// A highlight with non-positive width or height, or a circle with non-positive
// radius, is malformed and reported false; clamping happens only after that
// check so a degenerate command cannot be rescued into a minimum-size shape.
func normalizeMatch(m Match) (models.Annotation, bool) {
	page := m.Page
	if page < 1 {
		page = 1
	}

	a := models.Annotation{
		Type:            m.Type,
		Page:            page,
		X:               clampInt(m.X, 0, maxX),
		Y:               clampInt(m.Y, 0, maxY),
		Color:           m.Color,
		AnimationEffect: animationPulse,
		Importance:      "medium",
		IsAutomatic:     true,
	}

	switch m.Type {
	case models.AnnotationHighlight:
		if m.Width <= 0 || m.Height <= 0 {
			return models.Annotation{}, false
		}
		a.Width = clampInt(m.Width, minWidth, maxWidth)
		a.Height = clampInt(m.Height, minHeight, maxHeight)
		if a.Color == "" {
			a.Color = defaultHighlightColor
		}
	case models.AnnotationCircle:
		if m.Radius <= 0 {
			return models.Annotation{}, false
		}
		a.Radius = clampInt(m.Radius, minRadius, maxRadius)
		if a.Color == "" {
			a.Color = defaultCircleColor
		}
	default:
		return models.Annotation{}, false
	}

	return a, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
