package chi

import (
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain/result"
)

type resultsResponse struct {
	ID         string         `json:"id,omitempty"`
	Query      string         `json:"query,omitempty"`
	HasResults bool           `json:"hasResults"`
	Normalized result.Results `json:"normalized"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
}

type archiveResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type pingResponse struct {
	Message string `json:"message"`
}

type purchaseRequest struct {
	Amount int `json:"amount"`
}

type ensureUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type profileResponse struct {
	UID                    string    `json:"uid"`
	Email                  string    `json:"email,omitempty"`
	Name                   string    `json:"name,omitempty"`
	Username               string    `json:"username,omitempty"`
	Role                   string    `json:"role"`
	UniquePurchaseID       string    `json:"uniquePurchaseId"`
	FreeSearches           int       `json:"freeSearches"`
	PurchasedSearches      int       `json:"purchasedSearches"`
	UsedSearches           int       `json:"usedSearches"`
	TotalSearchesRemaining int       `json:"totalSearchesRemaining"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type usageMetrics struct {
	Searches int `json:"searches"`
}

type budgetStatus struct {
	SearchesLimit     int        `json:"searches_limit"`
	SearchesRemaining int        `json:"searches_remaining"`
	IsExhausted       bool       `json:"is_exhausted"`
	ResetsAt          *time.Time `json:"resets_at,omitempty"`
}

type usageResponse struct {
	Period        string       `json:"period"`
	Provider      string       `json:"provider"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
	Usage         usageMetrics `json:"usage"`
	Budget        budgetStatus `json:"budget"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
