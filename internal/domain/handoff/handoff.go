// Package handoff holds normalized results parked for a later page load.
package handoff

import (
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain/result"
)

// Handoff is a saved search outcome addressed by an opaque id.
type Handoff struct {
	id         string
	query      string
	normalized result.Results
	hasResults bool
	createdAt  time.Time
}

// New creates a handoff. hasResults is the hit test of the raw answer the
// results were built from, kept so later loads report the same flag.
func New(id, query string, normalized result.Results, hasResults bool, createdAt time.Time) Handoff {
	return Handoff{id: id, query: query, normalized: normalized, hasResults: hasResults, createdAt: createdAt}
}

// ID returns the handoff id.
func (h Handoff) ID() string { return h.id }

// Query returns the display query the results belong to.
func (h Handoff) Query() string { return h.query }

// Normalized returns the saved results.
func (h Handoff) Normalized() result.Results { return h.normalized }

// CreatedAt returns the save time.
func (h Handoff) CreatedAt() time.Time { return h.createdAt }

// HasResults reports whether the raw answer was a hit.
func (h Handoff) HasResults() bool { return h.hasResults }
