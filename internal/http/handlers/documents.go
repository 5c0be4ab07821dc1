package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homemedreview/hmr-platform/internal/archive"
	"github.com/homemedreview/hmr-platform/internal/extraction"
	"github.com/homemedreview/hmr-platform/internal/observability/metrics"
	"github.com/homemedreview/hmr-platform/pkg/logging"
)

// acceptedDocumentMIMEs are the upload types the extraction entry point
// takes: referral PDFs plus scanned page images fed straight to OCR.
var acceptedDocumentMIMEs = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/tiff":      true,
}

// DocumentsHandler handles referral document extraction.
type DocumentsHandler struct {
	engine         *extraction.Engine
	archive        *archive.Store
	metrics        *metrics.DocumentMetrics
	logger         *logging.Logger
	maxUploadBytes int64
}

// NewDocumentsHandler creates a documents handler.
func NewDocumentsHandler(engine *extraction.Engine, store *archive.Store, m *metrics.DocumentMetrics, logger *logging.Logger, maxUploadBytes int64) *DocumentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DocumentsHandler{
		engine:         engine,
		archive:        store,
		metrics:        m,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	DocumentID string                 `json:"document_id"`
	Data       extraction.PatientData `json:"data"`
	RawText    string                 `json:"raw_text"`
	Degraded   bool                   `json:"degraded"`
}

// Extract handles POST /api/documents/extract.
// Accepts either a multipart upload (file field "document") or a raw body
// with an appropriate Content-Type.
func (h *DocumentsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	data, mimeType, err := h.readUpload(w, r)
	if err != nil {
		jsonError(w, err.Error(), uploadErrorStatus(err))
		return
	}
	if !acceptedDocumentMIMEs[mimeType] {
		h.metrics.ObserveExtraction("unsupported", false, 0)
		jsonError(w, "unsupported document type: "+mimeType, http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.engine.Extract(r.Context(), data)
	if err != nil {
		h.metrics.ObserveExtraction("error", false, time.Since(start).Seconds())
		h.logger.Error("extraction failed", "error", err)
		jsonError(w, "extraction failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveExtraction("ok", result.Degraded, time.Since(start).Seconds())

	docID := uuid.NewString()
	h.archiveAsync(archive.Document{
		ID:          docID,
		Kind:        archive.KindReferral,
		ContentType: mimeType,
		Body:        data,
	})

	respondJSON(w, http.StatusOK, ExtractResponse{
		DocumentID: docID,
		Data:       result.Data,
		RawText:    result.RawText,
		Degraded:   result.Degraded,
	})
}

// readUpload returns the document bytes and MIME type from either a
// multipart form or the raw request body.
func (h *DocumentsHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("document")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, normalizeMIME(header.Header.Get("Content-Type")), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, normalizeMIME(contentType), nil
}

// archiveAsync stores a document without blocking the response. Failures are
// logged only.
func (h *DocumentsHandler) archiveAsync(doc archive.Document) {
	if !h.archive.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.archive.ArchiveDocument(ctx, doc); err != nil {
			h.logger.Warn("document archival failed", "document_id", doc.ID, "error", err)
		}
	}()
}

func normalizeMIME(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}
