package track

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
)

// Event is one search to report.
type Event struct {
	Email     string
	Query     string
	Found     bool
	Timestamp string
}

// Message renders the notification text. Email defaults to "unknown" and
// timestamp to now in RFC 3339.
func (e Event) Message(now time.Time) string {
	email := e.Email
	if email == "" {
		email = "unknown"
	}
	ts := e.Timestamp
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339)
	}
	status := "✗"
	if e.Found {
		status = "✓"
	}
	return strings.Join([]string{
		"Search event",
		"Email: " + email,
		"Query: " + e.Query,
		"Time: " + ts,
		"Status: " + status,
	}, "\n")
}

// Service reports search events. A nil notifier disables delivery.
type Service struct {
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	wg     sync.WaitGroup
}

// New creates a Service with an async queue of queueSize events.
func New(notifier Notifier, queueSize int, timeout time.Duration, logger *zap.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 64
	}
	s := &Service{
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
		queue:    make(chan Event, queueSize),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Notify validates and delivers an event synchronously.
// Without a notifier every event is accepted and discarded unchecked.
// Delivery failures are logged, not returned.
func (s *Service) Notify(ctx context.Context, e Event) error {
	if s.notifier == nil {
		return nil
	}
	if strings.TrimSpace(e.Query) == "" {
		return fmt.Errorf("track search: %w", domain.ErrMissingQuery)
	}
	s.deliver(ctx, e)
	return nil
}

// NotifyAsync queues an event. Events are dropped when the queue is full
// or the service is closed.
func (s *Service) NotifyAsync(e Event) {
	if s.notifier == nil || strings.TrimSpace(e.Query) == "" {
		return
	}
	if e.Timestamp == "" {
		e.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		metrics.TrackEventsTotal.WithLabelValues("dropped").Inc()
		return
	}
	select {
	case s.queue <- e:
	default:
		metrics.TrackEventsTotal.WithLabelValues("dropped").Inc()
		s.logger.Warn("Search event queue full, dropping event")
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (s *Service) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) run() {
	defer s.wg.Done()
	for e := range s.queue {
		s.deliver(context.Background(), e)
	}
}

func (s *Service) deliver(ctx context.Context, e Event) {
	if s.notifier == nil {
		return
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.notifier.Send(ctx, e.Message(s.now())); err != nil {
		metrics.TrackEventsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Track webhook failed", zap.Error(err))
		return
	}
	metrics.TrackEventsTotal.WithLabelValues("sent").Inc()
}
