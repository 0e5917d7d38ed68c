package metrics

// Metrics holds breach API usage for a time period.
type Metrics struct {
	searches int
}

// New creates a Metrics snapshot.
func New(searches int) Metrics {
	return Metrics{searches: searches}
}

// Searches returns the number of upstream searches charged to the budget.
func (m Metrics) Searches() int { return m.searches }
