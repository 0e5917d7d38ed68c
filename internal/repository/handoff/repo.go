package handoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/db"
	"github.com/kailas-cloud/osintinfo/internal/domain"
	dom "github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
)

var keyPrefix = domain.KeyPrefix + "results:"

// DefaultTTL is how long saved results stay loadable.
const DefaultTTL = time.Hour

// store is the consumer interface for the handoff store (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo saves and loads normalized results under random ids.
type Repo struct {
	store      store
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
	loadsTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a handoff repository.
// loadsTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, loadsTotal *prometheus.CounterVec, logger *zap.Logger) *Repo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{
		store:      s,
		ttl:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
		loadsTotal: loadsTotal,
		logger:     logger,
	}
}

// Save stores results for query together with the raw hit flag and returns
// the saved handoff.
func (r *Repo) Save(
	ctx context.Context, query string, normalized result.Results, hasResults bool,
) (dom.Handoff, error) {
	h := dom.New(r.newID(), query, normalized, hasResults, r.now().UTC())
	data, err := marshalEntry(h)
	if err != nil {
		return dom.Handoff{}, err
	}
	if err := r.store.SetWithTTL(ctx, keyPrefix+h.ID(), data, r.ttl); err != nil {
		return dom.Handoff{}, fmt.Errorf("save handoff %s: %w", h.ID(), err)
	}
	return h, nil
}

// Load returns saved results. Unknown or expired ids give domain.ErrHandoffNotFound.
func (r *Repo) Load(ctx context.Context, id string) (dom.Handoff, error) {
	if _, err := uuid.Parse(id); err != nil {
		r.inc("miss")
		return dom.Handoff{}, fmt.Errorf("handoff %q: %w", id, domain.ErrHandoffNotFound)
	}

	data, err := r.store.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			r.inc("miss")
			return dom.Handoff{}, fmt.Errorf("handoff %s: %w", id, domain.ErrHandoffNotFound)
		}
		return dom.Handoff{}, fmt.Errorf("load handoff %s: %w", id, err)
	}

	h, err := unmarshalEntry(id, data)
	if err != nil {
		r.logger.Warn("Failed to parse saved results", zap.String("id", id), zap.Error(err))
		r.inc("miss")
		return dom.Handoff{}, fmt.Errorf("handoff %s: %w", id, domain.ErrHandoffNotFound)
	}

	r.inc("hit")
	return h, nil
}

func (r *Repo) inc(result string) {
	if r.loadsTotal != nil {
		r.loadsTotal.WithLabelValues(result).Inc()
	}
}
