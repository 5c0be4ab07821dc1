package templates

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// documentXMLPath is the main document part of a DOCX package.
const documentXMLPath = "word/document.xml"

// readDocumentXML opens the DOCX package and returns the main document part.
// A malformed archive or a missing document part is a fatal template error.
func readDocumentXML(docx []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return "", fmt.Errorf("docx: open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != documentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx: open %s: %w", documentXMLPath, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("docx: read %s: %w", documentXMLPath, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("docx: package has no %s", documentXMLPath)
}

// rewriteDocumentXML repackages the DOCX with a replaced main document part,
// preserving every other entry and the original entry order.
func rewriteDocumentXML(docx []byte, documentXML string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("docx: open archive: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("docx: create entry %s: %w", f.Name, err)
		}
		if f.Name == documentXMLPath {
			if _, err := w.Write([]byte(documentXML)); err != nil {
				return nil, fmt.Errorf("docx: write %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open entry %s: %w", f.Name, err)
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: copy entry %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
