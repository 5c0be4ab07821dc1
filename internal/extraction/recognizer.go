package extraction

import "context"

// TextRecognizer produces a UTF-8 text block from raw document bytes. Any
// backend able to do that is acceptable; the engine only depends on this
// interface.
//
// Close releases backend resources (worker threads, temp files) and must be
// called once per acquired recognizer, on every exit path.
type TextRecognizer interface {
	Recognize(ctx context.Context, doc []byte) (string, error)
	Close() error
}

// RecognizerFactory hands out a recognizer for a single extraction request.
// The caller owns the returned instance and releases it via Close.
type RecognizerFactory func() TextRecognizer
