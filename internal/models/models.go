package models

import (
	"time"
)

// AnnotationType identifies the kind of drawable directive.
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationCircle    AnnotationType = "circle"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationArrow     AnnotationType = "arrow"
	AnnotationText      AnnotationType = "text"
	AnnotationRectangle AnnotationType = "rectangle"
	AnnotationFreeform  AnnotationType = "freeform"
)

// Annotation is a single drawable directive extracted from the model's output.
// The pipeline only ever produces highlights and circles; the remaining types
// exist so manually authored annotations share the same record.
type Annotation struct {
	Type            AnnotationType `json:"type"`
	Page            int            `json:"page"`
	X               int            `json:"x"`
	Y               int            `json:"y"`
	Width           int            `json:"width,omitempty"`  // highlight only
	Height          int            `json:"height,omitempty"` // highlight only
	Radius          int            `json:"radius,omitempty"` // circle only
	Color           string         `json:"color"`
	AnimationEffect string         `json:"animationEffect,omitempty"`
	Importance      string         `json:"importance,omitempty"`
	IsAutomatic     bool           `json:"isAutomatic"`
}

// ChatMessage represents one prior turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// PDFText carries the page-window text context the client extracted for the
// page currently in view.
type PDFText struct {
	CurrentPageText  string `json:"currentPageText"`
	PreviousPageText string `json:"previousPageText,omitempty"`
	NextPageText     string `json:"nextPageText,omitempty"`
	CurrentPage      int    `json:"currentPage"`
	TotalPages       int    `json:"totalPages"`
}

// StreamPayload bridges the two-phase chat request: the initiation step writes
// it, the streaming step reads it back by stream id. Retrievable only within
// the store's TTL window from CreatedAt.
type StreamPayload struct {
	Messages    []ChatMessage `json:"messages"`
	PDFText     *PDFText      `json:"pdfText,omitempty"`
	PDFID       string        `json:"pdfId,omitempty"`
	CurrentPage int           `json:"currentPage"`
	PageHints   []string      `json:"pageHints,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NavigationResult is the outcome of scanning one fragment for page-navigation
// intent. TargetPage is nil when no cue was found. DelayMs is a presentation
// hint only; the consumer schedules (and clamps) the jump.
type NavigationResult struct {
	TargetPage    *int `json:"targetPage"`
	DelayMs       int  `json:"delayMs"`
	HasNavigation bool `json:"hasNavigation"`
}
