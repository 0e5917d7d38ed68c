package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// LedgerPinger checks credit ledger availability.
type LedgerPinger interface {
	Ping(ctx context.Context) error
}
