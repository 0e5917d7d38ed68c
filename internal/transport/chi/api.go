package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	CodeBadRequest            ErrorResponseCode = "bad_request"
	CodeUnauthorized          ErrorResponseCode = "unauthorized"
	CodeInvalidQuery          ErrorResponseCode = "invalid_query"
	CodeMissingQuery          ErrorResponseCode = "missing_query"
	CodeInvalidPayload        ErrorResponseCode = "invalid_payload"
	CodeInvalidAmount         ErrorResponseCode = "invalid_amount"
	CodeResultsNotFound       ErrorResponseCode = "results_not_found"
	CodeProfileNotFound       ErrorResponseCode = "profile_not_found"
	CodeNoSearchesRemaining   ErrorResponseCode = "no_searches_remaining"
	CodeRateLimited           ErrorResponseCode = "rate_limited"
	CodeProviderNotConfigured ErrorResponseCode = "provider_not_configured"
	CodeProviderTimeout       ErrorResponseCode = "provider_timeout"
	CodeProviderError         ErrorResponseCode = "provider_error"
	CodeProviderQuotaExceeded ErrorResponseCode = "provider_quota_exceeded"
	CodeUpstreamError         ErrorResponseCode = "upstream_error"
	CodeNotImplemented        ErrorResponseCode = "not_implemented"
	CodeInternalError         ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// UpstreamErrorResponse is the body of a relayed breach API failure.
type UpstreamErrorResponse struct {
	Code     ErrorResponseCode `json:"code"`
	Message  string            `json:"message"`
	Status   int               `json:"status"`
	Upstream bool              `json:"upstream"`
}

// ResultsID is the handoff id path parameter.
type ResultsID = string

// UserID is the credit profile path parameter.
type UserID = string

// ExportFormat selects the export document type.
type ExportFormat string

// Export formats.
const (
	ExportFormatText     ExportFormat = "text"
	ExportFormatMarkdown ExportFormat = "markdown"
)

// ExportResultsParams defines parameters for ExportResults.
type ExportResultsParams struct {
	Format *ExportFormat `form:"format,omitempty" json:"format,omitempty"`
}

// GetUsageParams defines parameters for GetUsage.
type GetUsageParams struct {
	Period *string `form:"period,omitempty" json:"period,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET|POST /api/search)
	SearchRaw(w http.ResponseWriter, r *http.Request)
	// (POST /api/results)
	CreateResults(w http.ResponseWriter, r *http.Request)
	// (GET /api/results/{id})
	GetResults(w http.ResponseWriter, r *http.Request, id ResultsID)
	// (GET /api/results/{id}/export)
	ExportResults(w http.ResponseWriter, r *http.Request, id ResultsID, params ExportResultsParams)
	// (POST /api/results/{id}/archive)
	ArchiveResults(w http.ResponseWriter, r *http.Request, id ResultsID)
	// (POST /api/normalize)
	NormalizePayload(w http.ResponseWriter, r *http.Request)
	// (POST /api/track-search)
	TrackSearch(w http.ResponseWriter, r *http.Request)
	// (GET /api/ping)
	Ping(w http.ResponseWriter, r *http.Request)
	// (GET /api/users/{uid}/credits)
	GetCredits(w http.ResponseWriter, r *http.Request, uid UserID)
	// (POST /api/users/{uid}/credits)
	PurchaseCredits(w http.ResponseWriter, r *http.Request, uid UserID)
	// (PUT /api/users/{uid})
	EnsureUser(w http.ResponseWriter, r *http.Request, uid UserID)
	// (GET /usage)
	GetUsage(w http.ResponseWriter, r *http.Request, params GetUsageParams)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single route handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts requests to handler calls with bound parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, mw := range siw.HandlerMiddlewares {
		h = mw(h)
	}
	return h
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// SearchRaw operation middleware.
func (siw *ServerInterfaceWrapper) SearchRaw(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.SearchRaw)).ServeHTTP(w, r)
}

// CreateResults operation middleware.
func (siw *ServerInterfaceWrapper) CreateResults(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.CreateResults)).ServeHTTP(w, r)
}

// GetResults operation middleware.
func (siw *ServerInterfaceWrapper) GetResults(w http.ResponseWriter, r *http.Request) {
	var id ResultsID
	if !siw.bindPath(w, r, "id", &id) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetResults(w, r, id)
	})).ServeHTTP(w, r)
}

// ExportResults operation middleware.
func (siw *ServerInterfaceWrapper) ExportResults(w http.ResponseWriter, r *http.Request) {
	var id ResultsID
	if !siw.bindPath(w, r, "id", &id) {
		return
	}
	var params ExportResultsParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "format", Err: err})
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ExportResults(w, r, id, params)
	})).ServeHTTP(w, r)
}

// ArchiveResults operation middleware.
func (siw *ServerInterfaceWrapper) ArchiveResults(w http.ResponseWriter, r *http.Request) {
	var id ResultsID
	if !siw.bindPath(w, r, "id", &id) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ArchiveResults(w, r, id)
	})).ServeHTTP(w, r)
}

// NormalizePayload operation middleware.
func (siw *ServerInterfaceWrapper) NormalizePayload(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.NormalizePayload)).ServeHTTP(w, r)
}

// TrackSearch operation middleware.
func (siw *ServerInterfaceWrapper) TrackSearch(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.TrackSearch)).ServeHTTP(w, r)
}

// Ping operation middleware.
func (siw *ServerInterfaceWrapper) Ping(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Ping)).ServeHTTP(w, r)
}

// GetCredits operation middleware.
func (siw *ServerInterfaceWrapper) GetCredits(w http.ResponseWriter, r *http.Request) {
	var uid UserID
	if !siw.bindPath(w, r, "uid", &uid) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCredits(w, r, uid)
	})).ServeHTTP(w, r)
}

// PurchaseCredits operation middleware.
func (siw *ServerInterfaceWrapper) PurchaseCredits(w http.ResponseWriter, r *http.Request) {
	var uid UserID
	if !siw.bindPath(w, r, "uid", &uid) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PurchaseCredits(w, r, uid)
	})).ServeHTTP(w, r)
}

// EnsureUser operation middleware.
func (siw *ServerInterfaceWrapper) EnsureUser(w http.ResponseWriter, r *http.Request) {
	var uid UserID
	if !siw.bindPath(w, r, "uid", &uid) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.EnsureUser(w, r, uid)
	})).ServeHTTP(w, r)
}

// GetUsage operation middleware.
func (siw *ServerInterfaceWrapper) GetUsage(w http.ResponseWriter, r *http.Request) {
	var params GetUsageParams
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &params.Period); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "period", Err: err})
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetUsage(w, r, params)
	})).ServeHTTP(w, r)
}

// HealthCheck operation middleware.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.HealthCheck)).ServeHTTP(w, r)
}

// Metrics operation middleware.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Metrics)).ServeHTTP(w, r)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts every route on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}
	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/api/search", wrapper.SearchRaw)
		r.Post(base+"/api/search", wrapper.SearchRaw)
	})
	r.Group(func(r chi.Router) {
		r.Post(base+"/api/results", wrapper.CreateResults)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/api/results/{id}", wrapper.GetResults)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/api/results/{id}/export", wrapper.ExportResults)
	})
	r.Group(func(r chi.Router) {
		r.Post(base+"/api/results/{id}/archive", wrapper.ArchiveResults)
	})
	r.Group(func(r chi.Router) {
		r.Post(base+"/api/normalize", wrapper.NormalizePayload)
	})
	r.Group(func(r chi.Router) {
		r.Post(base+"/api/track-search", wrapper.TrackSearch)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/api/ping", wrapper.Ping)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/api/users/{uid}/credits", wrapper.GetCredits)
		r.Post(base+"/api/users/{uid}/credits", wrapper.PurchaseCredits)
	})
	r.Group(func(r chi.Router) {
		r.Put(base+"/api/users/{uid}", wrapper.EnsureUser)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/usage", wrapper.GetUsage)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/metrics", wrapper.Metrics)
	})
	return r
}
