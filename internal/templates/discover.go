package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/unidoc/unipdf/v3/model"
)

// genericFields is the fallback field list returned when a template yields no
// discoverable fields, so the mapping UI always has something to offer.
var genericFields = []string{
	"patient_name",
	"date_of_birth",
	"address",
	"phone",
	"medicare_number",
	"referring_doctor",
	"interview_date",
	"pharmacist_name",
	"medications_list",
	"recommendations",
	"next_review_date",
}

func genericFieldList() []string {
	out := make([]string, len(genericFields))
	copy(out, genericFields)
	return out
}

// DiscoverFields extracts the fillable field names from a template. Results
// are deduplicated in order of first appearance. Unsupported MIME types are
// rejected; parse failures degrade to the generic fallback list instead.
func DiscoverFields(template []byte, mimeType string) ([]string, error) {
	switch normalizeMIME(mimeType) {
	case MIMEPDF:
		return discoverPDFFields(template), nil
	case MIMEDOCX:
		return discoverDOCXFields(template)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// discoverPDFFields returns the names of the interactive form fields. Any
// load/parse failure, or a document with no form, yields the generic list.
func discoverPDFFields(template []byte) []string {
	reader, err := model.NewPdfReader(bytes.NewReader(template))
	if err != nil {
		return genericFieldList()
	}
	acro := reader.AcroForm
	if acro == nil {
		return genericFieldList()
	}

	var names []string
	for _, field := range acro.AllFields() {
		name, err := field.FullName()
		if err != nil || strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return genericFieldList()
	}
	return dedupe(names)
}

// DOCX discovery strategies, applied in order, accumulating into one set:
// legacy form-field names, content-control tags (tag preferred over title),
// {curly} placeholders, [square] placeholders.
var (
	ffDataNameRe  = regexp.MustCompile(`<w:name\s+w:val="([^"]+)"`)
	sdtPrBlockRe  = regexp.MustCompile(`(?s)<w:sdtPr>(.*?)</w:sdtPr>`)
	sdtTagRe      = regexp.MustCompile(`<w:tag\s+w:val="([^"]+)"`)
	sdtAliasRe    = regexp.MustCompile(`<w:alias\s+w:val="([^"]+)"`)
	curlyBraceRe  = regexp.MustCompile(`\{([^{}<>]+)\}`)
	squareBrackRe = regexp.MustCompile(`\[([^\[\]<>]+)\]`)
)

func discoverDOCXFields(template []byte) ([]string, error) {
	documentXML, err := readDocumentXML(template)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, m := range ffDataNameRe.FindAllStringSubmatch(documentXML, -1) {
		names = append(names, m[1])
	}

	for _, block := range sdtPrBlockRe.FindAllStringSubmatch(documentXML, -1) {
		if tag := sdtTagRe.FindStringSubmatch(block[1]); tag != nil {
			names = append(names, tag[1])
			continue
		}
		if alias := sdtAliasRe.FindStringSubmatch(block[1]); alias != nil {
			names = append(names, alias[1])
		}
	}

	for _, m := range curlyBraceRe.FindAllStringSubmatch(documentXML, -1) {
		names = append(names, m[1])
	}

	for _, m := range squareBrackRe.FindAllStringSubmatch(documentXML, -1) {
		names = append(names, m[1])
	}

	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return genericFieldList(), nil
	}
	return dedupe(cleaned), nil
}

// dedupe removes duplicates preserving first-appearance order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
