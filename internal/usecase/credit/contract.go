package credit

import (
	"context"

	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
)

// Repository persists credit profiles.
type Repository interface {
	Get(ctx context.Context, uid string) (credit.Profile, error)
	Create(ctx context.Context, p credit.Profile) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, uid string, fn func(credit.Profile) (credit.Profile, error)) (credit.Profile, error)
}
