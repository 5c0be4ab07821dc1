package templates

import (
	"fmt"
	"regexp"
	"strings"
)

// fillDOCX replaces placeholder tokens and content-control bodies in the raw
// document XML. Values are injected verbatim, without XML escaping, to stay
// byte-compatible with legacy templates that rely on raw placeholder
// substitution (see DESIGN.md).
func (f *Filler) fillDOCX(template []byte, values ValueTable, mapping FieldMapping) ([]byte, error) {
	documentXML, err := readDocumentXML(template)
	if err != nil {
		return nil, err
	}

	for templateField, reportKey := range mapping {
		value := values[reportKey] // unknown keys resolve to ""

		// Double-brace placeholders first so "{{field}}" is not half-eaten
		// by the single-brace replacement.
		for _, token := range []string{
			"{{" + templateField + "}}",
			"{" + templateField + "}",
			"[" + templateField + "]",
		} {
			documentXML = strings.ReplaceAll(documentXML, token, value)
		}

		documentXML = replaceContentControl(documentXML, templateField, value)
	}

	filled, err := rewriteDocumentXML(template, documentXML)
	if err != nil {
		return nil, fmt.Errorf("docx: repackage: %w", err)
	}
	return filled, nil
}

// replaceContentControl locates the <w:sdt> block tagged with the field name
// and swaps the text run content between the tag declaration and the closing
// tag in a single non-greedy substitution.
func replaceContentControl(documentXML, field, value string) string {
	re, err := regexp.Compile(
		`(?s)(<w:sdt>.*?<w:tag\s+w:val="` + regexp.QuoteMeta(field) + `".*?<w:t[^>]*>).*?(</w:t>.*?</w:sdt>)`)
	if err != nil {
		return documentXML
	}
	replacement := "${1}" + strings.ReplaceAll(value, "$", "$$") + "${2}"
	return re.ReplaceAllString(documentXML, replacement)
}
