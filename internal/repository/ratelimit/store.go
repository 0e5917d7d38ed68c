package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "ratelimit:"

// store is the consumer interface for the shared limiter (ISP).
type store interface {
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// Store is a fixed-window per-key limiter shared by every instance through Redis.
// Rates of one or more per second use one-second windows; slower rates widen
// the window so that one request fits into it.
type Store struct {
	store  store
	limit  int64
	window time.Duration
	now    func() time.Time
}

// New creates a fixed-window limiter allowing perSecond requests per key.
func New(s store, perSecond float64) *Store {
	limit := int64(1)
	window := time.Second
	switch {
	case perSecond >= 1:
		limit = int64(math.Floor(perSecond))
	case perSecond > 0:
		window = time.Duration(math.Ceil(1/perSecond)) * time.Second
	}
	return &Store{store: s, limit: limit, window: window, now: time.Now}
}

// Allow counts one request for key and reports whether it fits the current window.
func (s *Store) Allow(ctx context.Context, key string) (bool, error) {
	secs := int64(s.window / time.Second)
	bucket := s.now().Unix() / secs * secs
	k := keyPrefix + key + ":" + strconv.FormatInt(bucket, 10)

	// The key outlives its window by one second to tolerate clock skew between instances.
	n, err := s.store.IncrByWithTTL(ctx, k, 1, s.window+time.Second)
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return n <= s.limit, nil
}
