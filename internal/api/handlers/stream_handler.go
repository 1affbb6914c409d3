package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docenthq/docent/internal/api/sse"
	"github.com/docenthq/docent/internal/config"
	"github.com/docenthq/docent/internal/core"
	annotationengine "github.com/docenthq/docent/internal/core/annotation_engine"
	"github.com/docenthq/docent/internal/models"
)

// systemPrompt teaches the model the bracket-command grammar the pipeline
// recognizes. Coordinates are on an 800x1200 page canvas.
const systemPrompt = `You are a PDF reading assistant. Answer based only on the supplied page text.
While answering you may embed visual commands inline, for example:
[HIGHLIGHT x y width height page] to highlight a region,
[CIRCLE x y radius page] to circle a region,
[GO TO PAGE n], [NEXT PAGE], [PREV PAGE], [FIRST PAGE] or [LAST PAGE] to move the view.
Coordinates are integers on an 800x1200 page. Keep commands on one line inside the prose.`

type StreamHandler struct {
	store core.PayloadStore
	llm   core.LLMProvider
	cfg   *config.Config
	log   *zap.Logger
}

func NewStreamHandler(store core.PayloadStore, llm core.LLMProvider, cfg *config.Config, log *zap.Logger) *StreamHandler {
	return &StreamHandler{store: store, llm: llm, cfg: cfg, log: log}
}

type InitiateRequest struct {
	StreamID    string               `json:"streamId,omitempty"`
	Messages    []models.ChatMessage `json:"messages"`
	PDFText     *models.PDFText      `json:"pdfText,omitempty"`
	PDFID       string               `json:"pdfId,omitempty"`
	CurrentPage int                  `json:"currentPage"`
	PageHints   []string             `json:"pageHints,omitempty"`
}

type InitiateResponse struct {
	StreamID    string                `json:"streamId"`
	ExpiresInMs int64                 `json:"expiresInMs"`
	// Payload is echoed back so a client talking to a different instance on
	// the follow-up request can resend it inline (the fallback transport).
	Payload *models.StreamPayload `json:"payload"`
}

// Initiate stores the context blob for the follow-up streaming request and
// hands the client its stream id.
func (h *StreamHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "messages required", http.StatusBadRequest)
		return
	}

	id := req.StreamID
	if id == "" {
		id = uuid.NewString()
	}

	payload := &models.StreamPayload{
		Messages:    req.Messages,
		PDFText:     req.PDFText,
		PDFID:       req.PDFID,
		CurrentPage: req.CurrentPage,
		PageHints:   req.PageHints,
		CreatedAt:   time.Now(),
	}
	if payload.CurrentPage < 1 {
		payload.CurrentPage = 1
	}

	if err := h.store.Set(ctx, id, payload); err != nil {
		h.log.Error("payload store set failed", zap.String("stream_id", id), zap.Error(err))
		http.Error(w, "could not store stream context", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(InitiateResponse{
		StreamID:    id,
		ExpiresInMs: h.cfg.StreamTTL.Milliseconds(),
		Payload:     payload,
	})
}

// frame is one pending SSE event produced by the pipeline goroutine.
type frame struct {
	event   string
	payload any
}

// Stream replays the stored payload into the LLM and relays the answer as
// server-sent events, running every fragment through the extraction pipeline.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "streamID")

	out, err := sse.NewWriter(w)
	if err != nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	payload, ok := h.loadPayload(r, id)
	if !ok {
		out.Send("error", map[string]string{"type": "error", "error": "stream not found"})
		return
	}
	// Read-once by intent: drop the entry now so the id cannot be replayed
	// past this request.
	_ = h.store.Delete(r.Context(), id)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	currentPage := payload.CurrentPage
	if currentPage < 1 {
		currentPage = 1
	}
	totalPages := 0
	if payload.PDFText != nil {
		totalPages = payload.PDFText.TotalPages
	}

	frames := make(chan frame, 16)
	emit := func(f frame) {
		select {
		case frames <- f:
		case <-ctx.Done():
		}
	}

	engineCfg := annotationengine.Config{
		Debug:           h.cfg.Pipeline.Debug,
		AnnotationTrace: h.cfg.Pipeline.AnnotationTrace,
		StreamTrace:     h.cfg.Pipeline.StreamTrace,
	}
	pipe := annotationengine.New(engineCfg, h.log, annotationengine.Options{
		CurrentPage:  currentPage,
		FallbackHint: firstHint(payload.PageHints),
		OnAnnotations: func(annotations []models.Annotation) {
			emit(frame{"annotations", map[string]any{"annotations": annotations}})
		},
		OnNavigation: func(targetPage, delayMs int) {
			if totalPages > 0 {
				targetPage = clampPage(targetPage, totalPages)
			}
			emit(frame{"navigation", map[string]any{"targetPage": targetPage, "delayMs": delayMs}})
		},
	})

	tokens, errs := h.llm.GenerateStream(ctx, systemPrompt, buildUserPrompt(payload))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		for {
			select {
			case frag, open := <-tokens:
				if !open {
					if tail := pipe.Flush(); tail != "" {
						emit(frame{"text", map[string]string{"content": tail}})
					}
					return nil
				}
				if cleaned := pipe.ProcessFragment(frag); cleaned != "" {
					emit(frame{"text", map[string]string{"content": cleaned}})
				}
			case err := <-errs:
				if err != nil {
					return err
				}
				errs = nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	heartbeat := time.NewTicker(h.cfg.Heartbeat)
	defer heartbeat.Stop()
	idle := time.NewTimer(h.cfg.IdleLimit)
	defer idle.Stop()

	for {
		select {
		case f, open := <-frames:
			if !open {
				if err := g.Wait(); err != nil && ctx.Err() == nil {
					h.log.Error("stream failed", zap.String("stream_id", id), zap.Error(err))
					out.Send("error", map[string]string{"type": "error", "error": err.Error()})
					return
				}
				out.Send("done", map[string]bool{"done": true})
				return
			}
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(h.cfg.IdleLimit)
			if err := out.Send(f.event, f.payload); err != nil {
				cancel()
				return
			}
		case <-heartbeat.C:
			if err := out.Send("heartbeat", map[string]int64{"timestamp": time.Now().UnixMilli()}); err != nil {
				cancel()
				return
			}
		case <-idle.C:
			out.Send("error", map[string]string{"type": "error", "error": "Connection timeout"})
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// loadPayload resolves the stream context: the store first, then the inline
// fallback the client may have attached for cross-instance deployments. A
// store error is a miss, not a fault; the fallback still applies.
func (h *StreamHandler) loadPayload(r *http.Request, id string) (*models.StreamPayload, bool) {
	payload, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.log.Warn("payload store get failed", zap.String("stream_id", id), zap.Error(err))
	}
	if ok {
		return payload, true
	}

	if raw := r.URL.Query().Get("payload"); raw != "" {
		var inline models.StreamPayload
		if err := json.Unmarshal([]byte(raw), &inline); err == nil && len(inline.Messages) > 0 {
			return &inline, true
		}
		h.log.Warn("inline payload unusable", zap.String("stream_id", id))
	}
	return nil, false
}

func buildUserPrompt(p *models.StreamPayload) string {
	var sb strings.Builder

	if p.PDFText != nil {
		fmt.Fprintf(&sb, "The reader is viewing page %d", p.PDFText.CurrentPage)
		if p.PDFText.TotalPages > 0 {
			fmt.Fprintf(&sb, " of %d", p.PDFText.TotalPages)
		}
		sb.WriteString(".\n\n")
		writeSection(&sb, "Previous page", p.PDFText.PreviousPageText)
		writeSection(&sb, "Current page", p.PDFText.CurrentPageText)
		writeSection(&sb, "Next page", p.PDFText.NextPageText)
	}

	if len(p.PageHints) > 0 {
		sb.WriteString("Hints: ")
		sb.WriteString(strings.Join(p.PageHints, "; "))
		sb.WriteString("\n\n")
	}

	sb.WriteString("Conversation so far:\n")
	for _, m := range p.Messages {
		role := "User"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&sb, "%s: %s\n", role, m.Content)
	}
	sb.WriteString("\nRespond to the last user message.")

	return sb.String()
}

func writeSection(sb *strings.Builder, label, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(sb, "%s:\n%s\n\n", label, text)
}

func firstHint(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
