package templates

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDOCX assembles a minimal DOCX package around the given document body.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   documentXML,
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func run(body string) string {
	return `<w:p><w:r><w:t>` + body + `</w:t></w:r></w:p>`
}

func TestDiscoverDOCXPlaceholders(t *testing.T) {
	docx := buildDOCX(t, run(`Patient: {patient_name} born [date_of_birth]`))

	fields, err := DiscoverFields(docx, MIMEDOCX)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"patient_name", "date_of_birth"}, fields)
}

func TestDiscoverDOCXDeduplicates(t *testing.T) {
	docx := buildDOCX(t, run(`{patient_name} and again {patient_name} plus [patient_name]`))

	fields, err := DiscoverFields(docx, MIMEDOCX)
	require.NoError(t, err)
	assert.Equal(t, []string{"patient_name"}, fields)
}

func TestDiscoverDOCXContentControls(t *testing.T) {
	body := `<w:sdt><w:sdtPr><w:alias w:val="Patient Full Name"/><w:tag w:val="patient_name"/></w:sdtPr>` +
		`<w:sdtContent><w:r><w:t>placeholder</w:t></w:r></w:sdtContent></w:sdt>` +
		`<w:sdt><w:sdtPr><w:alias w:val="review_date"/></w:sdtPr>` +
		`<w:sdtContent><w:r><w:t>placeholder</w:t></w:r></w:sdtContent></w:sdt>`
	docx := buildDOCX(t, body)

	fields, err := DiscoverFields(docx, MIMEDOCX)
	require.NoError(t, err)
	// Tag wins over title on the first control; the second has only a title.
	assert.Contains(t, fields, "patient_name")
	assert.Contains(t, fields, "review_date")
	assert.NotContains(t, fields, "Patient Full Name")
}

func TestDiscoverDOCXLegacyFormFields(t *testing.T) {
	body := `<w:r><w:fldChar w:fldCharType="begin"><w:ffData><w:name w:val="pharmacist_name"/>` +
		`<w:textInput/></w:ffData></w:fldChar></w:r>`
	docx := buildDOCX(t, body)

	fields, err := DiscoverFields(docx, MIMEDOCX)
	require.NoError(t, err)
	assert.Contains(t, fields, "pharmacist_name")
}

func TestDiscoverDOCXNoFieldsFallsBack(t *testing.T) {
	docx := buildDOCX(t, run(`Plain paragraph with no placeholders.`))

	fields, err := DiscoverFields(docx, MIMEDOCX)
	require.NoError(t, err)
	assert.Equal(t, genericFields, fields)
}

func TestDiscoverDOCXMalformedArchive(t *testing.T) {
	_, err := DiscoverFields([]byte("not a zip file"), MIMEDOCX)
	assert.Error(t, err)
}

func TestDiscoverPDFUnparseableFallsBack(t *testing.T) {
	fields, err := DiscoverFields([]byte("not a pdf"), MIMEPDF)
	require.NoError(t, err)
	assert.Equal(t, genericFields, fields)
}

func TestDiscoverUnsupportedMIME(t *testing.T) {
	_, err := DiscoverFields([]byte("x"), "text/plain")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDiscoverMIMEWithParameters(t *testing.T) {
	docx := buildDOCX(t, run(`{patient_name}`))
	fields, err := DiscoverFields(docx, MIMEDOCX+"; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"patient_name"}, fields)
}
