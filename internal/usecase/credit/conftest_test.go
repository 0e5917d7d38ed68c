package credit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	mu          sync.Mutex
	profiles    map[string]credit.Profile
	lookupErr   error
	createErr   error
	lookups     int
	updateCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: map[string]credit.Profile{}}
}

func (m *memRepo) Get(_ context.Context, uid string) (credit.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return credit.Profile{}, fmt.Errorf("profile %s: %w", uid, domain.ErrProfileNotFound)
	}
	return p, nil
}

func (m *memRepo) Create(_ context.Context, p credit.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.profiles[p.UID()] = p
	return nil
}

func (m *memRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	for _, p := range m.profiles {
		if p.Username() == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Update(
	_ context.Context, uid string, fn func(credit.Profile) (credit.Profile, error),
) (credit.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	p, ok := m.profiles[uid]
	if !ok {
		return credit.Profile{}, fmt.Errorf("profile %s: %w", uid, domain.ErrProfileNotFound)
	}
	next, err := fn(p)
	if err != nil {
		return credit.Profile{}, err
	}
	m.profiles[uid] = next
	return next, nil
}

var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	s := New(repo, zap.NewNop())
	s.now = func() time.Time { return testNow }
	s.newID = func() string { return "purchase-id" }
	s.suffix = func() int { return 42 }
	return s, repo
}
