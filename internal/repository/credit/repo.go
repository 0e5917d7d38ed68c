package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
)

// Repo stores credit profiles in Postgres.
type Repo struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to Postgres. maxOpen bounds the connection pool.
func Open(dsn string, maxOpen int, logger *zap.Logger) (*Repo, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("ledger pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return New(gdb, logger), nil
}

// New wraps an open gorm handle.
func New(db *gorm.DB, logger *zap.Logger) *Repo {
	return &Repo{db: db, logger: logger}
}

// Migrate creates or updates the ledger table.
func (r *Repo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&profileRow{}); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// Ping checks ledger connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("ledger pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping ledger: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("ledger pool: %w", err)
	}
	return sqlDB.Close()
}

// Get loads a profile. A missing row gives domain.ErrProfileNotFound.
func (r *Repo) Get(ctx context.Context, uid string) (credit.Profile, error) {
	var row profileRow
	err := r.db.WithContext(ctx).Where("uid = ?", uid).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return credit.Profile{}, fmt.Errorf("profile %s: %w", uid, domain.ErrProfileNotFound)
		}
		return credit.Profile{}, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return fromRow(row), nil
}

// Create inserts a new profile.
func (r *Repo) Create(ctx context.Context, p credit.Profile) error {
	row := toRow(p)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create profile %s: %w", p.UID(), err)
	}
	return nil
}

// UsernameTaken reports whether any profile already uses username.
func (r *Repo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&profileRow{}).
		Where("username = ?", username).Limit(1).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup username %s: %w", username, err)
	}
	return n > 0, nil
}

// Update applies fn to the locked row inside one transaction and saves the result.
// Errors from fn abort the transaction and are returned as is.
func (r *Repo) Update(
	ctx context.Context, uid string, fn func(credit.Profile) (credit.Profile, error),
) (credit.Profile, error) {
	var out credit.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row profileRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("uid = ?", uid).Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("profile %s: %w", uid, domain.ErrProfileNotFound)
			}
			return fmt.Errorf("lock profile %s: %w", uid, err)
		}

		next, err := fn(fromRow(row))
		if err != nil {
			return err
		}

		updated := toRow(next)
		if err := tx.Save(&updated).Error; err != nil {
			return fmt.Errorf("save profile %s: %w", uid, err)
		}
		out = next
		return nil
	})
	if err != nil {
		return credit.Profile{}, err //nolint:wrapcheck // already wrapped inside the transaction
	}
	return out, nil
}
