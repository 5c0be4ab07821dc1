package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey: object not found")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestArchiveDocument(t *testing.T) {
	fake := newFakeS3()
	store := NewStore(fake, "test-bucket", nil)

	doc := Document{
		ID:          "doc-123",
		Kind:        KindReferral,
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.4 fake"),
		ReceivedAt:  time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	}
	if err := store.ArchiveDocument(context.Background(), doc); err != nil {
		t.Fatalf("ArchiveDocument failed: %v", err)
	}

	wantKey := "documents/v1/by-date/2026/02/03/referral/doc-123.pdf"
	if _, ok := fake.objects[wantKey]; !ok {
		t.Errorf("expected object at %s, have keys %v", wantKey, keys(fake.objects))
	}

	// The monthly manifest should carry one JSONL line referencing the key.
	found := false
	for key, data := range fake.objects {
		if strings.HasPrefix(key, "documents/v1/manifests/") {
			found = true
			if !strings.Contains(string(data), wantKey) {
				t.Errorf("manifest does not reference %s: %s", wantKey, data)
			}
			if !strings.HasSuffix(string(data), "\n") {
				t.Error("manifest should end with newline")
			}
		}
	}
	if !found {
		t.Error("expected a manifest object")
	}
}

func TestArchiveManifestAppends(t *testing.T) {
	fake := newFakeS3()
	store := NewStore(fake, "test-bucket", nil)

	for _, id := range []string{"a", "b", "c"} {
		doc := Document{ID: id, Kind: KindFilledReport, ContentType: "application/pdf", Body: []byte("x")}
		if err := store.ArchiveDocument(context.Background(), doc); err != nil {
			t.Fatalf("archive %s: %v", id, err)
		}
	}

	for key, data := range fake.objects {
		if strings.HasPrefix(key, "documents/v1/manifests/") {
			lines := strings.Count(string(data), "\n")
			if lines != 3 {
				t.Errorf("expected 3 manifest lines, got %d: %s", lines, data)
			}
		}
	}
}

func TestDisabledStoreIsNoOp(t *testing.T) {
	store := NewStore(nil, "", nil)
	if store.Enabled() {
		t.Error("store without bucket should be disabled")
	}
	if err := store.ArchiveDocument(context.Background(), Document{ID: "x"}); err != nil {
		t.Errorf("disabled store must be a no-op, got %v", err)
	}

	var nilStore *Store
	if nilStore.Enabled() {
		t.Error("nil store should report disabled")
	}
}

func TestArchivePutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("s3 unavailable")
	store := NewStore(fake, "test-bucket", nil)

	err := store.ArchiveDocument(context.Background(), Document{ID: "x", Kind: KindReferral, Body: []byte("y")})
	if err == nil {
		t.Error("expected error when S3 put fails")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/pdf", ".pdf"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		{"application/json", ".json"},
		{"application/octet-stream", ".bin"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.contentType); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
