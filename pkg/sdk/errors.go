package osintinfo

import "github.com/kailas-cloud/osintinfo/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery          = domain.ErrInvalidQuery
	ErrInvalidPayload        = domain.ErrInvalidPayload
	ErrProviderNotConfigured = domain.ErrProviderNotConfigured
	ErrProviderTimeout       = domain.ErrProviderTimeout
	ErrProviderError         = domain.ErrProviderError
	ErrProviderQuotaExceeded = domain.ErrProviderQuotaExceeded
)

// UpstreamError is a non-2xx answer of the breach API. Use errors.As to read
// the status and body; it also matches ErrProviderError.
type UpstreamError = domain.UpstreamError
