package templates

import (
	"bytes"
	"fmt"

	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// fillPDF writes mapped values into the template's AcroForm fields. Missing
// fields and type mismatches are logged and skipped; only an unloadable
// template or a template without a form fails the operation.
func (f *Filler) fillPDF(template []byte, values ValueTable, mapping FieldMapping) ([]byte, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("pdf: load template: %w", err)
	}
	acro := reader.AcroForm
	if acro == nil {
		return nil, fmt.Errorf("pdf: template has no interactive form")
	}

	fieldsByName := make(map[string]*model.PdfField)
	for _, field := range acro.AllFields() {
		name, err := field.FullName()
		if err != nil {
			continue
		}
		fieldsByName[name] = field
	}

	for templateField, reportKey := range mapping {
		value := values[reportKey] // unknown keys resolve to ""

		field, ok := fieldsByName[templateField]
		if !ok {
			f.logger.Warn("template field not found, skipping", "field", templateField)
			continue
		}

		switch ctx := field.GetContext().(type) {
		case *model.PdfFieldText:
			ctx.V = core.MakeString(value)
		case *model.PdfFieldButton:
			if !ctx.IsCheckbox() {
				f.logger.Warn("unsupported button field, skipping", "field", templateField)
				continue
			}
			if isTruthy(value) {
				ctx.V = core.MakeName("Yes")
			} else {
				ctx.V = core.MakeName("Off")
			}
		default:
			f.logger.Warn("unsupported field type, skipping", "field", templateField)
		}
	}

	// Ask viewers to regenerate appearances for the updated values.
	acro.NeedAppearances = core.MakeBool(true)

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("pdf: page count: %w", err)
	}

	writer := model.NewPdfWriter()
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("pdf: read page %d: %w", i, err)
		}
		if err := writer.AddPage(page); err != nil {
			return nil, fmt.Errorf("pdf: add page %d: %w", i, err)
		}
	}
	if err := writer.SetForms(acro); err != nil {
		return nil, fmt.Errorf("pdf: attach form: %w", err)
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		return nil, fmt.Errorf("pdf: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// isTruthy reports whether a resolved value checks a checkbox: any non-empty
// value except the literal strings "false" and "0".
func isTruthy(value string) bool {
	return value != "" && value != "false" && value != "0"
}
