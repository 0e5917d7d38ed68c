package archive

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/export"
)

type mockLoader struct {
	h   handoff.Handoff
	err error
}

func (m *mockLoader) Load(_ context.Context, _ string) (handoff.Handoff, error) {
	return m.h, m.err
}

type mockUploader struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (m *mockUploader) Upload(_ context.Context, key, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.key, m.contentType, m.data = key, contentType, data
	return "https://cdn.example.com/" + key, nil
}

func sampleHandoff() handoff.Handoff {
	res := result.NewResults([]result.Record{
		result.NewRecord("r1", "Site A", "", []result.Field{
			result.NewField("email", "Email", result.String("a@b.c")),
		}),
	})
	return handoff.New("abc", "a@b.c", res, true, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestArchive_Uploads(t *testing.T) {
	up := &mockUploader{}
	svc := New(&mockLoader{h: sampleHandoff()}, export.New(export.DefaultOptions()), up, "exports/", zap.NewNop())

	got, err := svc.Archive(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "exports/abc/osint-info-results-a-b-c.txt" {
		t.Errorf("key = %q", got.Key)
	}
	if got.URL != "https://cdn.example.com/"+got.Key {
		t.Errorf("url = %q", got.URL)
	}
	if !strings.HasPrefix(up.contentType, "text/plain") {
		t.Errorf("content type = %q", up.contentType)
	}
	if !strings.Contains(string(up.data), "Email: a@b.c") {
		t.Errorf("body = %s", up.data)
	}
}

func TestArchive_Disabled(t *testing.T) {
	svc := New(&mockLoader{h: sampleHandoff()}, export.New(export.DefaultOptions()), nil, "", zap.NewNop())
	if svc.Enabled() {
		t.Fatal("expected disabled")
	}
	_, err := svc.Archive(context.Background(), "abc")
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestArchive_NotFound(t *testing.T) {
	svc := New(&mockLoader{err: domain.ErrHandoffNotFound}, export.New(export.DefaultOptions()), &mockUploader{}, "", zap.NewNop())
	_, err := svc.Archive(context.Background(), "nope")
	if !errors.Is(err, domain.ErrHandoffNotFound) {
		t.Fatalf("expected ErrHandoffNotFound, got %v", err)
	}
}

func TestArchive_UploadError(t *testing.T) {
	up := &mockUploader{err: errors.New("denied")}
	svc := New(&mockLoader{h: sampleHandoff()}, export.New(export.DefaultOptions()), up, "", zap.NewNop())
	if _, err := svc.Archive(context.Background(), "abc"); err == nil {
		t.Fatal("expected error")
	}
}
