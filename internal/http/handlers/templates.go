package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homemedreview/hmr-platform/internal/archive"
	"github.com/homemedreview/hmr-platform/internal/observability/metrics"
	"github.com/homemedreview/hmr-platform/internal/report"
	"github.com/homemedreview/hmr-platform/internal/templates"
	"github.com/homemedreview/hmr-platform/pkg/logging"
)

// TemplatesHandler handles template field discovery and filling.
type TemplatesHandler struct {
	filler         *templates.Filler
	archive        *archive.Store
	metrics        *metrics.DocumentMetrics
	logger         *logging.Logger
	maxUploadBytes int64
}

// NewTemplatesHandler creates a templates handler.
func NewTemplatesHandler(filler *templates.Filler, store *archive.Store, m *metrics.DocumentMetrics, logger *logging.Logger, maxUploadBytes int64) *TemplatesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TemplatesHandler{
		filler:         filler,
		archive:        store,
		metrics:        m,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// DiscoverFieldsResponse is the body of a successful field discovery.
type DiscoverFieldsResponse struct {
	Fields []string `json:"fields"`
}

// DiscoverFields handles POST /api/templates/fields.
// Multipart upload: file field "template"; the part's Content-Type (or the
// "mime_type" form value when present) selects the parser.
func (h *TemplatesHandler) DiscoverFields(w http.ResponseWriter, r *http.Request) {
	data, mimeType, err := h.readTemplate(w, r)
	if err != nil {
		jsonError(w, err.Error(), uploadErrorStatus(err))
		return
	}

	fields, err := templates.DiscoverFields(data, mimeType)
	if err != nil {
		if errors.Is(err, templates.ErrUnsupportedFormat) {
			h.metrics.ObserveDiscovery(mimeType, "unsupported")
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.metrics.ObserveDiscovery(mimeType, "error")
		h.logger.Error("field discovery failed", "mime_type", mimeType, "error", err)
		jsonError(w, "template could not be read: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.metrics.ObserveDiscovery(mimeType, "ok")

	respondJSON(w, http.StatusOK, DiscoverFieldsResponse{Fields: fields})
}

// Fill handles POST /api/templates/fill.
// Multipart upload: file field "template" plus form values "template_type"
// ("pdf" or "docx"), "mapping" (JSON object) and "report" (JSON report data).
func (h *TemplatesHandler) Fill(w http.ResponseWriter, r *http.Request) {
	data, _, err := h.readTemplate(w, r)
	if err != nil {
		jsonError(w, err.Error(), uploadErrorStatus(err))
		return
	}

	kind := templates.Kind(r.FormValue("template_type"))
	if kind != templates.KindPDF && kind != templates.KindDOCX {
		jsonError(w, "template_type must be \"pdf\" or \"docx\"", http.StatusBadRequest)
		return
	}

	var mapping templates.FieldMapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			jsonError(w, "invalid mapping JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if len(mapping) == 0 {
		jsonError(w, "mapping is required", http.StatusBadRequest)
		return
	}

	var reportData report.ReportData
	if raw := r.FormValue("report"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &reportData); err != nil {
			jsonError(w, "invalid report JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	filled, err := h.filler.Fill(data, kind, reportData, mapping)
	if err != nil {
		if errors.Is(err, templates.ErrUnsupportedFormat) {
			h.metrics.ObserveFill(string(kind), "unsupported", time.Since(start).Seconds())
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.metrics.ObserveFill(string(kind), "error", time.Since(start).Seconds())
		h.logger.Error("template fill failed", "template_type", kind, "error", err)
		jsonError(w, "template fill failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.metrics.ObserveFill(string(kind), "ok", time.Since(start).Seconds())

	docID := uuid.NewString()
	h.archiveAsync(archive.Document{
		ID:          docID,
		Kind:        archive.KindFilledReport,
		ContentType: kind.ContentType(),
		Body:        filled,
	})

	filename := "hmr-report." + string(kind)
	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(filled)
}

func (h *TemplatesHandler) readTemplate(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("template")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	mimeType := r.FormValue("mime_type")
	if mimeType == "" {
		mimeType = header.Header.Get("Content-Type")
	}
	return data, normalizeMIME(mimeType), nil
}

func (h *TemplatesHandler) archiveAsync(doc archive.Document) {
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
