package annotationengine

import (
	"go.uber.org/zap"

	"github.com/docenthq/docent/internal/models"
)

// Config carries the trace toggles for one pipeline instance; there is no
// global mutable debug state.
type Config struct {
	Debug           bool
	AnnotationTrace bool
	StreamTrace     bool
}

// Options configures one pipeline instance. Callbacks are invoked
// synchronously during ProcessFragment, in fragment-arrival order; within a
// fragment, annotations are delivered left-to-right by match position.
type Options struct {
	// CurrentPage is the page in view, used when a command omits its page.
	CurrentPage int

	// FallbackHint sizes the synthesized highlight when a detected command
	// produced no valid annotation and the command itself carried no hint.
	FallbackHint string

	OnAnnotations func(annotations []models.Annotation)
	OnNavigation  func(targetPage int, delayMs int)
}

// Pipeline turns an incrementally delivered answer stream into annotations
// and navigation cues. Processing is single-threaded: each fragment is fully
// handled before the next is accepted, and the only state carried between
// fragments is the pending buffer holding an unterminated command prefix.
type Pipeline struct {
	cfg  Config
	log  *zap.Logger
	opts Options

	currentPage int
	pending     string
}

func New(cfg Config, log *zap.Logger, opts Options) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	page := opts.CurrentPage
	if page < 1 {
		page = 1
	}
	return &Pipeline{cfg: cfg, log: log, opts: opts, currentPage: page}
}

// SetCurrentPage moves the implicit-page fallback, typically after the
// consumer applied a navigation cue.
func (p *Pipeline) SetCurrentPage(page int) {
	if page >= 1 {
		p.currentPage = page
	}
}

// ProcessFragment parses one fragment (plus any carry-over from the previous
// one) and returns the prose with recognized command tokens stripped. A parse
// fault never interrupts the stream: the fragment comes back unmodified.
func (p *Pipeline) ProcessFragment(fragment string) (cleaned string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("fragment parse fault", zap.Any("panic", r))
			cleaned = fragment
		}
	}()

	combined := p.pending + fragment
	head, pending := splitPending(combined)
	p.pending = pending

	if p.cfg.StreamTrace {
		p.log.Debug("fragment",
			zap.Int("len", len(fragment)),
			zap.Int("pending", len(pending)))
	}

	cleaned, rec := recognize(head, p.currentPage)

	annotations := make([]models.Annotation, 0, len(rec.matches))
	for _, m := range rec.matches {
		a, ok := normalizeMatch(m)
		if !ok {
			p.log.Warn("malformed command skipped",
				zap.String("raw", m.Raw),
				zap.String("variant", string(m.Variant)))
			continue
		}
		if p.cfg.AnnotationTrace {
			p.log.Debug("annotation",
				zap.String("variant", string(m.Variant)),
				zap.String("type", string(a.Type)),
				zap.Int("page", a.Page))
		}
		annotations = append(annotations, a)
	}

	if rec.hadCommands && len(annotations) == 0 {
		hint := rec.textHint
		if hint == "" {
			hint = p.opts.FallbackHint
		}
		annotations = append(annotations, synthesizeFallback(p.currentPage, hint))
		if p.cfg.AnnotationTrace {
			p.log.Debug("fallback annotation synthesized", zap.Int("page", p.currentPage))
		}
	}

	if len(annotations) > 0 && p.opts.OnAnnotations != nil {
		p.opts.OnAnnotations(annotations)
	}

	nav := ExtractNavigation(head, p.currentPage)
	if nav.HasNavigation && nav.TargetPage != nil && p.opts.OnNavigation != nil {
		p.opts.OnNavigation(*nav.TargetPage, nav.DelayMs)
	}

	return cleaned
}

// Flush returns any carry-over buffer as prose. Call once at stream end so a
// trailing unterminated bracket is not silently dropped.
func (p *Pipeline) Flush() string {
	tail := p.pending
	p.pending = ""
	return tail
}
