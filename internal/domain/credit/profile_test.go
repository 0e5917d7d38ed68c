package credit

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestNew_FreeAllowance(t *testing.T) {
	p := New("u1", "bob@x.com", "Bob", "bob", "pid", now)
	if p.FreeSearches() != FreeSearches || p.Remaining() != FreeSearches {
		t.Errorf("free/remaining = %d/%d, want %d/%d", p.FreeSearches(), p.Remaining(), FreeSearches, FreeSearches)
	}
	if p.Role() != RoleUser {
		t.Errorf("Role() = %q, want user", p.Role())
	}
	if p.UsedSearches() != 0 || p.PurchasedSearches() != 0 {
		t.Error("new profile must start with zero used and purchased")
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name                       string
		free, bought, used, stored int
		want                       int
	}{
		{"stored wins", 2, 10, 0, 5, 5},
		{"stored zero", 2, 0, 0, 0, 0},
		{"derived", 2, 3, 1, RemainingUnset, 4},
		{"derived floored", 0, 0, 7, RemainingUnset, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Restore("u", "", "", "", RoleUser, "", tt.free, tt.bought, tt.used, tt.stored, now, now)
			if got := p.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConsume(t *testing.T) {
	p := New("u1", "", "", "", "pid", now)

	p, err := p.Consume(1, now)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if p.UsedSearches() != 1 || p.Remaining() != 1 {
		t.Errorf("used/remaining = %d/%d, want 1/1", p.UsedSearches(), p.Remaining())
	}

	p, _ = p.Consume(1, now)
	if _, err := p.Consume(1, now); !errors.Is(err, domain.ErrNoSearchesRemaining) {
		t.Errorf("Consume on empty balance error = %v, want ErrNoSearchesRemaining", err)
	}
}

func TestConsume_UnsetBalance(t *testing.T) {
	p := Restore("u", "", "", "", RoleUser, "", 2, 1, 1, RemainingUnset, now, now)
	p, err := p.Consume(2, now)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if p.StoredRemaining() != 0 || p.UsedSearches() != 3 {
		t.Errorf("stored/used = %d/%d, want 0/3", p.StoredRemaining(), p.UsedSearches())
	}
}

func TestConsume_InvalidAmount(t *testing.T) {
	p := New("u1", "", "", "", "pid", now)
	if _, err := p.Consume(0, now); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestPurchase(t *testing.T) {
	p := New("u1", "", "", "", "pid", now)
	p, err := p.Purchase(10, now)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if p.PurchasedSearches() != 10 || p.Remaining() != 12 {
		t.Errorf("purchased/remaining = %d/%d, want 10/12", p.PurchasedSearches(), p.Remaining())
	}
	if _, err := p.Purchase(-1, now); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestNormalize(t *testing.T) {
	later := now.Add(time.Hour)

	p := Restore("u", "", "", "", RoleUser, "", 5, 1, 1, 9, now, now)
	p, changed := p.Normalize(later)
	if !changed {
		t.Fatal("Normalize reported no change")
	}
	if p.FreeSearches() != 2 || p.StoredRemaining() != 2 {
		t.Errorf("free/stored = %d/%d, want 2/2", p.FreeSearches(), p.StoredRemaining())
	}
	if !p.UpdatedAt().Equal(later) {
		t.Errorf("UpdatedAt() = %v, want %v", p.UpdatedAt(), later)
	}

	if _, changed := p.Normalize(later); changed {
		t.Error("second Normalize reported a change")
	}
}

func TestUsernameBase(t *testing.T) {
	tests := map[string]string{
		"John.Doe+tag@x.com": "johndoetag",
		"ALICE@x.com":        "alice",
		"...@x.com":          "user",
		"@x.com":             "user",
		"plain":              "plain",
		"иван@x.com":         "user",
	}
	for in, want := range tests {
		if got := UsernameBase(in); got != want {
			t.Errorf("UsernameBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUsernameCandidate(t *testing.T) {
	if got := UsernameCandidate("bob", 1); got != "bob" {
		t.Errorf("attempt 1 = %q", got)
	}
	if got := UsernameCandidate("bob", 2); got != "bob2" {
		t.Errorf("attempt 2 = %q", got)
	}
	if got := UsernameFallback("bob", 42); got != "bob-00042" {
		t.Errorf("fallback = %q, want bob-00042", got)
	}
	if got := UsernameFallback("bob", 1234567); got != "bob-34567" {
		t.Errorf("fallback = %q, want bob-34567", got)
	}
}
