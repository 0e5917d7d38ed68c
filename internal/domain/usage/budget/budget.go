package budget

// Budget tracks the upstream search budget state.
type Budget struct {
	searchesLimit     int
	searchesRemaining int
	isExhausted       bool
	resetsAt          int64 // unix millis, converted to ISO 8601 at transport layer
}

// New creates a Budget snapshot.
func New(limit, remaining int, isExhausted bool, resetsAt int64) Budget {
	return Budget{
		searchesLimit:     limit,
		searchesRemaining: remaining,
		isExhausted:       isExhausted,
		resetsAt:          resetsAt,
	}
}

// SearchesLimit returns the search cap (0 = unlimited).
func (b Budget) SearchesLimit() int { return b.searchesLimit }

// SearchesRemaining returns searches left (-1 = unlimited).
func (b Budget) SearchesRemaining() int { return b.searchesRemaining }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
