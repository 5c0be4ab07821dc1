package extraction

import (
	"context"
	"strings"

	"github.com/homemedreview/hmr-platform/pkg/logging"
)

// Engine is the extraction facade: document bytes in, best-effort structured
// patient data out. Stateless between calls; a fresh recognizer is acquired
// from the factory per request and released on every exit path.
type Engine struct {
	newRecognizer RecognizerFactory
	fallbackText  string
	logger        *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFallbackText sets the text parsed when recognition fails. An empty
// string disables the fallback; the result is then empty but still returned.
func WithFallbackText(text string) Option {
	return func(e *Engine) { e.fallbackText = text }
}

// WithLogger sets the engine logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an extraction engine. The factory must not be nil.
func NewEngine(factory RecognizerFactory, opts ...Option) *Engine {
	e := &Engine{
		newRecognizer: factory,
		fallbackText:  SampleReferralText,
		logger:        logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs recognition plus parsing over the document. It never fails for
// malformed input: when recognition produces nothing usable the configured
// fallback text is parsed instead and the result is flagged Degraded. All
// results come back regardless of confidence; review is the caller's job.
func (e *Engine) Extract(ctx context.Context, doc []byte) (Result, error) {
	recognizer := e.newRecognizer()
	defer func() {
		if err := recognizer.Close(); err != nil {
			e.logger.Warn("failed to release recognizer", "error", err)
		}
	}()

	text, err := recognizer.Recognize(ctx, doc)
	degraded := false
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			e.logger.Warn("text recognition failed, using fallback", "error", err)
		} else {
			e.logger.Warn("text recognition produced no text, using fallback")
		}
		text = e.fallbackText
		degraded = true
	}

	data := ParseReferral(text)
	e.logger.Info("extraction completed",
		"degraded", degraded,
		"medications", len(data.Medications),
		"has_name", data.Name != "",
		"has_dob", data.DOB != "",
	)

	return Result{Data: data, RawText: text, Degraded: degraded}, nil
}
