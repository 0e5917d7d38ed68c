package handoff

import (
	"encoding/json"
	"fmt"
	"time"

	dom "github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
)

// entryJSON is the stored representation of a handoff.
type entryJSON struct {
	Query      string         `json:"query"`
	Normalized result.Results `json:"normalized"`
	HasResults *bool          `json:"hasResults,omitempty"`
	CreatedAt  string         `json:"createdAt"`
}

func marshalEntry(h dom.Handoff) ([]byte, error) {
	hasResults := h.HasResults()
	data, err := json.Marshal(entryJSON{
		Query:      h.Query(),
		Normalized: h.Normalized(),
		HasResults: &hasResults,
		CreatedAt:  h.CreatedAt().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal handoff: %w", err)
	}
	return data, nil
}

func unmarshalEntry(id string, data []byte) (dom.Handoff, error) {
	var e entryJSON
	if err := json.Unmarshal(data, &e); err != nil {
		return dom.Handoff{}, fmt.Errorf("unmarshal handoff: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
	if err != nil {
		// Older entries may miss the timestamp; keep the results.
		created = time.Time{}
	}
	// Entries written without the flag fall back to the normalized view.
	hasResults := e.Normalized.HasMeaningfulData()
	if e.HasResults != nil {
		hasResults = *e.HasResults
	}
	return dom.New(id, e.Query, e.Normalized, hasResults, created), nil
}
