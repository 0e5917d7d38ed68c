// Package credit models the per-user search credit balance.
package credit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain"
)

// Ledger defaults.
const (
	FreeSearches     = 2
	RoleUser         = "user"
	RoleAdmin        = "admin"
	MaxUsernameTries = 50
	// RemainingUnset marks a profile without a stored balance.
	RemainingUnset = -1
)

var usernameStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Profile is a user's credit ledger entry.
type Profile struct {
	uid               string
	email             string
	name              string
	username          string
	role              string
	uniquePurchaseID  string
	freeSearches      int
	purchasedSearches int
	usedSearches      int
	remaining         int
	createdAt         time.Time
	updatedAt         time.Time
}

// New creates a fresh profile with the free allowance.
func New(uid, email, name, username, purchaseID string, now time.Time) Profile {
	return Profile{
		uid:              uid,
		email:            email,
		name:             name,
		username:         username,
		role:             RoleUser,
		uniquePurchaseID: purchaseID,
		freeSearches:     FreeSearches,
		remaining:        FreeSearches,
		createdAt:        now,
		updatedAt:        now,
	}
}

// Restore rebuilds a profile from storage without validation.
func Restore(
	uid, email, name, username, role, purchaseID string,
	free, purchased, used, remaining int,
	createdAt, updatedAt time.Time,
) Profile {
	return Profile{
		uid:               uid,
		email:             email,
		name:              name,
		username:          username,
		role:              role,
		uniquePurchaseID:  purchaseID,
		freeSearches:      free,
		purchasedSearches: purchased,
		usedSearches:      used,
		remaining:         remaining,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// UID returns the user identifier.
func (p Profile) UID() string { return p.uid }

// Email returns the sign-in email, possibly empty.
func (p Profile) Email() string { return p.email }

// Name returns the display name, possibly empty.
func (p Profile) Name() string { return p.name }

// Username returns the public handle, possibly empty.
func (p Profile) Username() string { return p.username }

// Role returns "user" or "admin".
func (p Profile) Role() string { return p.role }

// UniquePurchaseID returns the id shown on purchase pages.
func (p Profile) UniquePurchaseID() string { return p.uniquePurchaseID }

// FreeSearches returns the free allowance.
func (p Profile) FreeSearches() int { return p.freeSearches }

// PurchasedSearches returns bought searches.
func (p Profile) PurchasedSearches() int { return p.purchasedSearches }

// UsedSearches returns consumed searches.
func (p Profile) UsedSearches() int { return p.usedSearches }

// StoredRemaining returns the persisted balance, RemainingUnset when absent.
func (p Profile) StoredRemaining() int { return p.remaining }

// CreatedAt returns the creation time.
func (p Profile) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification time.
func (p Profile) UpdatedAt() time.Time { return p.updatedAt }

// Remaining returns the effective balance: the stored value when set,
// otherwise free + purchased - used floored at zero.
func (p Profile) Remaining() int {
	if p.remaining >= 0 {
		return p.remaining
	}
	return p.derived()
}

func (p Profile) derived() int {
	return max(0, p.freeSearches+p.purchasedSearches-p.usedSearches)
}

// WithUsername sets the username.
func (p Profile) WithUsername(username string, now time.Time) Profile {
	p.username = username
	p.updatedAt = now
	return p
}

// Normalize clamps the free allowance to FreeSearches and resyncs the stored
// balance with the derived one. It reports whether anything changed.
func (p Profile) Normalize(now time.Time) (Profile, bool) {
	free := min(FreeSearches, max(0, p.freeSearches))
	changed := free != p.freeSearches
	p.freeSearches = free

	if d := p.derived(); p.remaining != d {
		p.remaining = d
		changed = true
	}
	if changed {
		p.updatedAt = now
	}
	return p, changed
}

// Consume charges n searches.
func (p Profile) Consume(n int, now time.Time) (Profile, error) {
	if n <= 0 {
		return p, fmt.Errorf("consume %d: %w", n, domain.ErrInvalidAmount)
	}
	current := p.remaining
	if current < 0 {
		current = max(0, p.freeSearches) + max(0, p.purchasedSearches) - max(0, p.usedSearches)
		current = max(0, current)
	}
	if current < n {
		return p, domain.ErrNoSearchesRemaining
	}
	p.usedSearches = max(0, p.usedSearches) + n
	p.remaining = current - n
	p.updatedAt = now
	return p, nil
}

// Purchase adds n bought searches to the balance.
func (p Profile) Purchase(n int, now time.Time) (Profile, error) {
	if n <= 0 {
		return p, fmt.Errorf("purchase %d: %w", n, domain.ErrInvalidAmount)
	}
	p.purchasedSearches += n
	p.remaining = p.Remaining() + n
	p.updatedAt = now
	return p, nil
}

// UsernameBase derives a handle from an email local part:
// lowercase alphanumerics only, "user" when nothing is left.
func UsernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	cleaned := usernameStripRegex.ReplaceAllString(strings.ToLower(local), "")
	if cleaned == "" {
		return "user"
	}
	return cleaned
}

// UsernameCandidate returns the attempt-th candidate: base, base2, base3, …
func UsernameCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return base + strconv.Itoa(attempt)
}

// UsernameFallback returns base with a five digit suffix.
func UsernameFallback(base string, n int) string {
	return fmt.Sprintf("%s-%05d", base, n%100000)
}
