package credit

import (
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
)

// profileRow is the user_profiles table row.
type profileRow struct {
	UID                    string  `gorm:"column:uid;primaryKey"`
	Email                  *string `gorm:"column:email"`
	Name                   *string `gorm:"column:name"`
	Username               *string `gorm:"column:username;uniqueIndex"`
	Role                   string  `gorm:"column:role;not null;default:user"`
	UniquePurchaseID       string  `gorm:"column:unique_purchase_id;uniqueIndex;not null"`
	FreeSearches           int     `gorm:"column:free_searches;not null;default:0"`
	PurchasedSearches      int     `gorm:"column:purchased_searches;not null;default:0"`
	UsedSearches           int     `gorm:"column:used_searches;not null;default:0"`
	TotalSearchesRemaining int     `gorm:"column:total_searches_remaining;not null;default:-1"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName sets the explicit table name for GORM.
func (profileRow) TableName() string {
	return "user_profiles"
}

func toRow(p credit.Profile) profileRow {
	return profileRow{
		UID:                    p.UID(),
		Email:                  optional(p.Email()),
		Name:                   optional(p.Name()),
		Username:               optional(p.Username()),
		Role:                   p.Role(),
		UniquePurchaseID:       p.UniquePurchaseID(),
		FreeSearches:           p.FreeSearches(),
		PurchasedSearches:      p.PurchasedSearches(),
		UsedSearches:           p.UsedSearches(),
		TotalSearchesRemaining: p.StoredRemaining(),
		CreatedAt:              p.CreatedAt(),
		UpdatedAt:              p.UpdatedAt(),
	}
}

func fromRow(r profileRow) credit.Profile {
	role := r.Role
	if role == "" {
		role = credit.RoleUser
	}
	return credit.Restore(
		r.UID, deref(r.Email), deref(r.Name), deref(r.Username), role, r.UniquePurchaseID,
		r.FreeSearches, r.PurchasedSearches, r.UsedSearches, r.TotalSearchesRemaining,
		r.CreatedAt, r.UpdatedAt,
	)
}

// optional maps "" to NULL so the unique username index ignores absent handles.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
