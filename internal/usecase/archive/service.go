// Package archive stores text exports of saved results in object storage.
package archive

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/export"
	"github.com/kailas-cloud/osintinfo/internal/logger"
)

const contentType = "text/plain; charset=utf-8"

// Uploader puts an object and returns its link.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// HandoffLoader loads saved results.
type HandoffLoader interface {
	Load(ctx context.Context, id string) (handoff.Handoff, error)
}

// Renderer renders a text export.
type Renderer interface {
	Text(query string, res result.Results) string
}

// Archived describes an uploaded export.
type Archived struct {
	Key string
	URL string
}

// Service archives exports.
type Service struct {
	handoffs HandoffLoader
	renderer Renderer
	uploader Uploader
	prefix   string
	logger   *zap.Logger
}

// New creates an archive service. A nil uploader disables archiving.
func New(handoffs HandoffLoader, renderer Renderer, uploader Uploader, prefix string, logger *zap.Logger) *Service {
	return &Service{
		handoffs: handoffs,
		renderer: renderer,
		uploader: uploader,
		prefix:   prefix,
		logger:   logger,
	}
}

// Enabled reports whether an object store is configured.
func (s *Service) Enabled() bool { return s.uploader != nil }

// Archive renders the saved results of id as text and uploads them under
// <prefix><id>/<filename>.
func (s *Service) Archive(ctx context.Context, id string) (Archived, error) {
	if s.uploader == nil {
		return Archived{}, fmt.Errorf("archive: %w", domain.ErrNotImplemented)
	}

	h, err := s.handoffs.Load(ctx, id)
	if err != nil {
		return Archived{}, fmt.Errorf("archive %s: %w", id, err)
	}

	body := s.renderer.Text(h.Query(), h.Normalized())
	key := s.prefix + path.Join(h.ID(), export.Filename(h.Query(), "txt"))

	url, err := s.uploader.Upload(ctx, key, contentType, []byte(body))
	if err != nil {
		return Archived{}, fmt.Errorf("archive %s: %w", id, err)
	}

	logger.FromContext(ctx).Info("Export archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return Archived{Key: key, URL: url}, nil
}
