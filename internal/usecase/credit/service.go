package credit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
)

// Service manages per-user search credits.
type Service struct {
	repo   Repository
	now    func() time.Time
	newID  func() string
	suffix func() int
	logger *zap.Logger
}

// New creates a Service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		suffix: func() int { return rand.Intn(100000) }, //nolint:gosec // not a secret
		logger: logger,
	}
}

// Get returns a profile.
func (s *Service) Get(ctx context.Context, uid string) (credit.Profile, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return credit.Profile{}, fmt.Errorf("get credits: %w", err)
	}
	return p, nil
}

// Ensure returns the user's profile, creating it with the free allowance on
// first sight. Existing profiles get a username when missing, then have the
// free allowance clamped and the balance resynced.
func (s *Service) Ensure(ctx context.Context, uid, email, name string) (credit.Profile, error) {
	if uid == "" {
		return credit.Profile{}, fmt.Errorf("ensure profile: %w", domain.ErrProfileNotFound)
	}

	existing, err := s.repo.Get(ctx, uid)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return s.create(ctx, uid, email, name)
	case err != nil:
		return credit.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}

	needsUsername := existing.Username() == "" && email != ""
	now := s.now().UTC()
	if _, changed := existing.Normalize(now); !changed && !needsUsername {
		return existing, nil
	}

	username := ""
	if needsUsername {
		username = s.uniqueUsername(ctx, credit.UsernameBase(email))
	}

	p, err := s.repo.Update(ctx, uid, func(cur credit.Profile) (credit.Profile, error) {
		if username != "" && cur.Username() == "" {
			cur = cur.WithUsername(username, now)
		}
		cur, _ = cur.Normalize(now)
		return cur, nil
	})
	if err != nil {
		return credit.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}
	return p, nil
}

func (s *Service) create(ctx context.Context, uid, email, name string) (credit.Profile, error) {
	username := ""
	if email != "" {
		username = s.uniqueUsername(ctx, credit.UsernameBase(email))
	}
	p := credit.New(uid, email, name, username, s.newID(), s.now().UTC())
	if err := s.repo.Create(ctx, p); err != nil {
		return credit.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.logger.Info("Credit profile created", zap.String("uid", uid), zap.String("username", username))
	return p, nil
}

// uniqueUsername tries base, base2 … base50 and falls back to a random
// five digit suffix when all are taken or the lookup fails.
func (s *Service) uniqueUsername(ctx context.Context, base string) string {
	for attempt := 1; attempt <= credit.MaxUsernameTries; attempt++ {
		candidate := credit.UsernameCandidate(base, attempt)
		taken, err := s.repo.UsernameTaken(ctx, candidate)
		if err != nil {
			s.logger.Warn("Username lookup failed", zap.String("candidate", candidate), zap.Error(err))
			break
		}
		if !taken {
			return candidate
		}
	}
	return credit.UsernameFallback(base, s.suffix())
}

// Consume charges n searches in one transaction.
func (s *Service) Consume(ctx context.Context, uid string, n int) (credit.Profile, error) {
	p, err := s.repo.Update(ctx, uid, func(cur credit.Profile) (credit.Profile, error) {
		return cur.Consume(n, s.now().UTC())
	})
	if err != nil {
		return credit.Profile{}, fmt.Errorf("consume credits: %w", err)
	}
	metrics.CreditsConsumedTotal.Add(float64(n))
	return p, nil
}

// Purchase adds n bought searches.
func (s *Service) Purchase(ctx context.Context, uid string, n int) (credit.Profile, error) {
	if n <= 0 {
		return credit.Profile{}, fmt.Errorf("purchase credits %d: %w", n, domain.ErrInvalidAmount)
	}
	p, err := s.repo.Update(ctx, uid, func(cur credit.Profile) (credit.Profile, error) {
		return cur.Purchase(n, s.now().UTC())
	})
	if err != nil {
		return credit.Profile{}, fmt.Errorf("purchase credits: %w", err)
	}
	s.logger.Info("Credits purchased", zap.String("uid", uid), zap.Int("amount", n))
	return p, nil
}
