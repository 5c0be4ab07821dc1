package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// minTextLayerChars is the smallest text layer considered usable. Scanned
// referrals often carry a near-empty layer of stray glyphs.
const minTextLayerChars = 40

// PDFTextRecognizer reads the embedded text layer of a digitally-born PDF.
// It holds no resources, so Close is a no-op.
type PDFTextRecognizer struct{}

// Recognize returns the concatenated text of all pages.
func (PDFTextRecognizer) Recognize(ctx context.Context, doc []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("pdftext: open reader: %w", err)
	}

	encrypted, err := pdfReader.IsEncrypted()
	if err != nil {
		return "", fmt.Errorf("pdftext: check encryption: %w", err)
	}
	if encrypted {
		if _, err := pdfReader.Decrypt([]byte("")); err != nil {
			return "", fmt.Errorf("pdftext: decrypt: %w", err)
		}
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("pdftext: page count: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("pdftext: page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("pdftext: extractor page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("pdftext: extract page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Close implements TextRecognizer.
func (PDFTextRecognizer) Close() error { return nil }

// LayeredRecognizer tries the PDF text layer first and falls back to OCR when
// the layer is missing or effectively empty. It owns the OCR recognizer and
// releases it on Close.
type LayeredRecognizer struct {
	textLayer PDFTextRecognizer
	ocr       TextRecognizer
}

// NewLayeredRecognizer wraps an OCR backend with a text-layer fast path.
func NewLayeredRecognizer(ocr TextRecognizer) *LayeredRecognizer {
	return &LayeredRecognizer{ocr: ocr}
}

// Recognize implements TextRecognizer.
func (r *LayeredRecognizer) Recognize(ctx context.Context, doc []byte) (string, error) {
	text, err := r.textLayer.Recognize(ctx, doc)
	if err == nil && len(strings.TrimSpace(text)) >= minTextLayerChars {
		return text, nil
	}
	if r.ocr == nil {
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("pdftext: text layer too small and no OCR backend configured")
	}
	return r.ocr.Recognize(ctx, doc)
}

// Close releases the wrapped OCR backend.
func (r *LayeredRecognizer) Close() error {
	if r.ocr == nil {
		return nil
	}
	return r.ocr.Close()
}
