package extraction

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs OCR over document bytes using a local Tesseract
// install. The underlying client is created lazily on the first Recognize
// call and reused until Close. Recognize is not safe for concurrent use on
// one instance; acquire one recognizer per request instead.
type TesseractRecognizer struct {
	language string

	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer for the given Tesseract
// language code (e.g. "eng").
func NewTesseractRecognizer(language string) *TesseractRecognizer {
	if language == "" {
		language = "eng"
	}
	return &TesseractRecognizer{language: language}
}

// Recognize extracts text from the document image bytes.
func (r *TesseractRecognizer) Recognize(ctx context.Context, doc []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		client := gosseract.NewClient()
		if err := client.SetLanguage(r.language); err != nil {
			_ = client.Close()
			return "", fmt.Errorf("tesseract: set language %q: %w", r.language, err)
		}
		r.client = client
	}

	if err := r.client.SetImageFromBytes(doc); err != nil {
		return "", fmt.Errorf("tesseract: load image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: recognize: %w", err)
	}
	return text, nil
}

// Close tears down the Tesseract client. Safe to call without a prior
// Recognize and safe to call more than once.
func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}
