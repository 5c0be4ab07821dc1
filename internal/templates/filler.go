// Package templates discovers fillable field names in user-supplied report
// templates and injects resolved report values into them. PDF AcroForm and
// DOCX (Office Open XML) templates are supported.
package templates

import (
	"errors"
	"fmt"

	"github.com/homemedreview/hmr-platform/internal/report"
	"github.com/homemedreview/hmr-platform/pkg/logging"
)

// ErrUnsupportedFormat is returned for template MIME types or kinds other
// than PDF and DOCX.
var ErrUnsupportedFormat = errors.New("unsupported template format")

// Kind discriminates template formats on the fill entry point.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// Template MIME types accepted by the discovery entry point.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ContentType returns the MIME type for a template kind.
func (k Kind) ContentType() string {
	if k == KindDOCX {
		return MIMEDOCX
	}
	return MIMEPDF
}

// FieldMapping maps a template field name (as discovered in the template) to
// a dotted report field key, e.g. "patient.name" or "medications.list".
type FieldMapping map[string]string

// Filler is the template-filling facade. Stateless per request: the value
// table is computed fresh from the report data on every call.
type Filler struct {
	resolver Resolver
	logger   *logging.Logger
}

// NewFiller creates a Filler. The resolver supplies operator-level defaults
// (pharmacist contact, clock).
func NewFiller(resolver Resolver, logger *logging.Logger) *Filler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Filler{resolver: resolver, logger: logger}
}

// Fill resolves the report data and injects mapped values into the template.
// Mapping entries pointing at unknown report keys inject empty strings; a
// single field that cannot be written is logged and skipped. Only an
// unparseable template fails the whole operation, and then no partial
// artifact is returned.
func (f *Filler) Fill(template []byte, kind Kind, data report.ReportData, mapping FieldMapping) ([]byte, error) {
	values := f.resolver.Resolve(data)

	switch kind {
	case KindPDF:
		return f.fillPDF(template, values, mapping)
	case KindDOCX:
		return f.fillDOCX(template, values, mapping)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}
