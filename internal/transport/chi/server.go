// Package chi is the HTTP boundary of the similarity search service.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fafadlian/similaritySearch-V3/internal/domain"
	healthuc "github.com/fafadlian/similaritySearch-V3/internal/usecase/health"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/search"
	"github.com/fafadlian/similaritySearch-V3/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search pipeline over HTTP.
type Server struct {
	search        *search.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(searchSvc *search.Service, healthSvc *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: searchSvc,
		health: healthSvc,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidDateRange, http.StatusBadRequest, codeInvalidDateRange),
		sentinelHandler(domain.ErrBundleIncomplete, http.StatusServiceUnavailable, codeShardUnavailable),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// Mount registers the API routes on a router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/v1/search", s.SimilaritySearch)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRequest is the request body of POST /v1/search. Field names follow
// the established client contract.
type searchRequest struct {
	Firstname       string `json:"firstname"`
	Surname         string `json:"surname"`
	DOB             string `json:"dob"`
	Address         string `json:"address"`
	CityName        string `json:"city_name"`
	Sex             string `json:"sex"`
	Nationality     string `json:"nationality"`
	OriginIATA      string `json:"iata_o"`
	DestinationIATA string `json:"iata_d"`
	ArrivalDateFrom string `json:"arrival_date_from"`
	ArrivalDateTo   string `json:"arrival_date_to"`

	NameThreshold     *float64 `json:"nameThreshold"`
	AgeThreshold      *float64 `json:"ageThreshold"`
	LocationThreshold *float64 `json:"locationThreshold"`
}

// SimilaritySearch handles POST /v1/search.
func (s *Server) SimilaritySearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	from, ok := parseDateBound(req.ArrivalDateFrom, false)
	if !ok {
		writeError(w, http.StatusBadRequest, codeInvalidDateRange,
			"arrival_date_from must be a YYYY-MM-DD date or RFC 3339 timestamp")
		return
	}
	to, ok := parseDateBound(req.ArrivalDateTo, true)
	if !ok {
		writeError(w, http.StatusBadRequest, codeInvalidDateRange,
			"arrival_date_to must be a YYYY-MM-DD date or RFC 3339 timestamp")
		return
	}

	resp, err := s.search.Search(r.Context(), search.Request{
		Firstname:         req.Firstname,
		Surname:           req.Surname,
		DOB:               req.DOB,
		Address:           req.Address,
		CityName:          req.CityName,
		Sex:               req.Sex,
		Nationality:       req.Nationality,
		OriginIATA:        req.OriginIATA,
		DestinationIATA:   req.DestinationIATA,
		ArrivalFrom:       from,
		ArrivalTo:         to,
		NameThreshold:     req.NameThreshold,
		AgeThreshold:      req.AgeThreshold,
		LocationThreshold: req.LocationThreshold,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status  string                          `json:"status"`
	Version string                          `json:"version"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// parseDateBound parses a window bound. A bare date names a whole day, so
// the upper bound extends to the last second of it.
func parseDateBound(s string, upper bool) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if upper {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest       = "bad_request"
	codeUnauthorized     = "unauthorized"
	codeInvalidDateRange = "invalid_date_range"
	codeShardUnavailable = "shard_unavailable"
	codeInternalError    = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidDateRange,
		domain.ErrBundleIncomplete,
		domain.ErrDimensionMismatch,
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
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
