// Package api implements the refnet HTTP API.
//
// The server exposes network analysis and growth simulation over JSON.
// Networks are submitted in request bodies using the pkg/network format;
// results come back as pipeline result objects. Completed runs are archived
// as reports in the configured store.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/refnetlabs/refnet/pkg/buildinfo"
	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/network"
	"github.com/refnetlabs/refnet/pkg/pipeline"
	"github.com/refnetlabs/refnet/pkg/store"
)

// maxBodyBytes caps request body size to keep malformed uploads cheap.
const maxBodyBytes = 16 << 20

// Server handles HTTP requests for network analysis and simulation.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server using the given runner and report store.
// A nil store disables report archiving.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/reach/{user}", s.handleReach)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})

	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// analyzeRequest is the body of POST /v1/analyze.
type analyzeRequest struct {
	Network network.Network  `json:"network"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	g, err := network.ToGraph(req.Network)
	if err != nil {
		s.writeError(w, err)
		return
	}

	req.Options.Logger = s.logger
	result, err := s.runner.Analyze(r.Context(), g, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.archive(r, store.Report{
		ID:          result.RunID,
		CreatedAt:   time.Now().UTC(),
		NetworkHash: result.NetworkHash,
		Kind:        result.Kind,
		Summary:     analysisSummary(result),
	}, result)

	writeJSON(w, http.StatusOK, result)
}

// reachRequest is the body of POST /v1/reach/{user}.
type reachRequest struct {
	Network network.Network `json:"network"`
}

func (s *Server) handleReach(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	var req reachRequest
	if !s.decode(w, r, &req) {
		return
	}

	g, err := network.ToGraph(req.Network)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Analyze(r.Context(), g, pipeline.Options{
		Kind:   pipeline.AnalysisReach,
		User:   user,
		Logger: s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.SimOptions
	if !s.decode(w, r, &opts) {
		return
	}

	opts.Logger = s.logger
	result, err := s.runner.Simulate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.archive(r, store.Report{
		ID:        result.RunID,
		CreatedAt: time.Now().UTC(),
		Kind:      result.Kind,
		Summary:   simSummary(result),
	}, result)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "report store not configured"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", raw))
			return
		}
		limit = n
	}

	reports, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "report store not configured"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid report id: %q", chi.URLParam(r, "id")))
		return
	}

	report, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON request body into v, writing an error response and
// returning false when decoding fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body"))
		return false
	}
	return true
}

// archive saves a report for a completed run. Archiving failures are logged
// but never fail the request.
func (s *Server) archive(r *http.Request, report store.Report, payload any) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	report.Payload = data
	if err := s.store.Save(r.Context(), report); err != nil {
		s.logger.Warn("failed to archive report", "id", report.ID, "error", err)
	}
}

// errorResponse is the JSON shape of all error replies.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)

	switch code {
	case errors.ErrCodeUnknownUser,
		errors.ErrCodeNotFound,
		errors.ErrCodeReportNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidUser,
		errors.ErrCodeInvalidNetwork,
		errors.ErrCodeInvalidProbability,
		errors.ErrCodeInvalidDuration,
		errors.ErrCodeInvalidTarget,
		errors.ErrCodeInvalidPrecision,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidAnalysis,
		errors.ErrCodeInvalidCurve:
		status = http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	case "":
		code = errors.ErrCodeInternal
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// analysisSummary builds the one-line report summary for an analysis.
func analysisSummary(result *pipeline.AnalysisResult) string {
	switch result.Kind {
	case pipeline.AnalysisRank:
		return "top referrers by total reach"
	case pipeline.AnalysisCoverage:
		return "greedy coverage ordering"
	case pipeline.AnalysisCentrality:
		return "flow centrality scores"
	default:
		return "reach query"
	}
}

// simSummary builds the one-line report summary for a simulation.
func simSummary(result *pipeline.SimResult) string {
	switch result.Kind {
	case pipeline.SimRun:
		return "growth simulation run"
	case pipeline.SimDays:
		return "days-to-target search"
	default:
		return "minimum incentive search"
	}
}
