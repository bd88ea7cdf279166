// Package chi binds the search services to an HTTP/JSON API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/filters"
	batchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/batch"
	healthuc "github.com/SWGEvolve/swg-graphql/internal/usecase/health"
	searchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/search"
)

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeMalformedQuery   = "malformed_raw_query"
	codeQueryRejected    = "query_rejected"
	codeIndexUnavailable = "index_unavailable"
	codeBatchFailed      = "batch_failed"
	codeNotFound         = "not_found"
	codeInternal         = "internal"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the search pipeline over HTTP.
type Server struct {
	search        *searchuc.Service
	batch         *batchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		batch:  batch,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMalformedRawQuery, http.StatusBadRequest, codeMalformedQuery),
		sentinelHandler(domain.ErrQueryRejected, http.StatusBadRequest, codeQueryRejected),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, codeIndexUnavailable),
		sentinelHandler(domain.ErrBatchChunkFailed, http.StatusBadGateway, codeBatchFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/search", s.Search)
	r.Post("/api/v1/objects/resolve", s.ResolveBatch)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// attributeRangeDTO is a per-attribute numeric window.
type attributeRangeDTO struct {
	Key string   `json:"key"`
	GTE *float64 `json:"gte,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// dateRangeDTO is a date window with optional ISO-8601 bounds.
type dateRangeDTO struct {
	GTE *string `json:"gte,omitempty"`
	LTE *string `json:"lte,omitempty"`
}

// searchRequest mirrors the caller-facing query parameters.
type searchRequest struct {
	SearchText            string              `json:"searchText"`
	SearchTextIsRawQuery  bool                `json:"searchTextIsRawQuery"`
	Types                 []string            `json:"types,omitempty"`
	ResourceAttributes    []attributeRangeDTO `json:"resourceAttributes,omitempty"`
	ResourceDepletionDate *dateRangeDTO       `json:"resourceDepletionDate,omitempty"`
	From                  int                 `json:"from"`
	Size                  int                 `json:"size"`
}

// resultDTO tags each resolved object with its kind.
type resultDTO struct {
	Kind   object.Kind   `json:"kind"`
	Object object.Result `json:"object"`
}

// searchResponse is the resolved search outcome.
type searchResponse struct {
	TotalResultCount int64       `json:"totalResultCount"`
	Results          []resultDTO `json:"results"`
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	f, err := filtersFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]resultDTO, 0, len(out.Results()))
	for _, res := range out.Results() {
		results = append(results, resultDTO{Kind: res.ResultKind(), Object: res})
	}
	writeJSON(w, http.StatusOK, searchResponse{
		TotalResultCount: out.Total(),
		Results:          results,
	})
}

// resolveRequest is a bulk id resolution request.
type resolveRequest struct {
	IDs   []string `json:"ids"`
	Types []string `json:"types,omitempty"`
}

// resolveResponse is the flattened bulk resolution result.
type resolveResponse struct {
	Results []resultDTO `json:"results"`
}

// ResolveBatch handles POST /api/v1/objects/resolve, the bulk rehydration
// path for callers that already hold the full id list.
func (s *Server) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	objs, err := s.batch.Resolve(r.Context(), req.IDs, req.Types)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]resultDTO, 0, len(objs))
	for _, o := range objs {
		results = append(results, resultDTO{Kind: o.ResultKind(), Object: o})
	}
	writeJSON(w, http.StatusOK, resolveResponse{Results: results})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func filtersFromRequest(req searchRequest) (filters.Filters, error) {
	attrs := make([]filters.AttributeRange, 0, len(req.ResourceAttributes))
	for _, a := range req.ResourceAttributes {
		ar, err := filters.NewAttributeRange(a.Key, a.GTE, a.LTE)
		if err != nil {
			return filters.Filters{}, err
		}
		attrs = append(attrs, ar)
	}

	var depletion *filters.DateRange
	if req.ResourceDepletionDate != nil {
		d := filters.NewDateRange(req.ResourceDepletionDate.GTE, req.ResourceDepletionDate.LTE)
		depletion = &d
	}

	return filters.New(
		req.SearchText,
		req.SearchTextIsRawQuery,
		req.Types,
		attrs,
		depletion,
		req.From,
		req.Size,
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMalformedRawQuery,
		domain.ErrQueryRejected,
		domain.ErrIndexUnavailable,
		domain.ErrBatchChunkFailed,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
