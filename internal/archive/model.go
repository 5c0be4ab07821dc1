// Package archive persists uploaded referrals and generated report documents
// to S3 for audit and reprocessing. Archival is best-effort and optional; an
// unconfigured store is a no-op.
package archive

import "time"

// DocumentKind distinguishes archived artifacts.
type DocumentKind string

const (
	KindReferral     DocumentKind = "referral"
	KindTemplate     DocumentKind = "template"
	KindFilledReport DocumentKind = "filled_report"
)

// Document is one artifact to archive.
type Document struct {
	ID          string
	Kind        DocumentKind
	ContentType string
	Body        []byte
	// ReceivedAt defaults to the current time when zero.
	ReceivedAt time.Time
}

// ManifestEntry is one JSONL line in the monthly manifest.
type ManifestEntry struct {
	DocumentID  string `json:"document_id"`
	S3Key       string `json:"s3_key"`
	Kind        string `json:"kind"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
	ArchivedAt  string `json:"archived_at"`
}
