// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finml/creditserve/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ModelLoaded reports whether an ensemble is available for scoring.
	ModelLoaded() bool

	// ExplainEnabled reports whether responses carry attribution.
	ExplainEnabled() bool

	// FeatureNames returns the ordered feature schema.
	FeatureNames() []string

	// Normalize maps a decoded JSON payload to a matrix in schema order.
	Normalize(ctx context.Context, payload any) (types.Matrix, error)

	// Predict scores every matrix row, preserving row order.
	Predict(ctx context.Context, m types.Matrix) ([]float64, error)

	// Explain attributes every matrix row.
	Explain(ctx context.Context, m types.Matrix) (types.Attribution, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	predictHandler *PredictHandler
	statsHandler   *StatsHandler
	healthHandler  *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		rootHandler:    NewRootHandler(),
		predictHandler: NewPredictHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		healthHandler:  NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
}

// predictResponse mirrors the serving contract for POST /predict.
type predictResponse struct {
	Predictions []float64           `json:"predictions"`
	Status      string              `json:"status"`
	Explanation *explanationPayload `json:"explanation,omitempty"`
}

// explanationPayload carries row-0 attribution. BaseValueDefaulted is only
// present when no baseline could be decoded from the artifact and 0 was
// substituted, so a legitimate zero baseline stays distinguishable.
type explanationPayload struct {
	BaseValue          float64              `json:"base_value"`
	BaseValueDefaulted bool                 `json:"base_value_defaulted,omitempty"`
	Values             []types.FeatureValue `json:"values"`
}

// errorResponse mirrors the serving contract for failures.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Status: "error"})
}
