package ratelimit

import "context"

// Backend decides whether one more request for key fits the rate.
type Backend interface {
	Allow(ctx context.Context, key string) (bool, error)
}
