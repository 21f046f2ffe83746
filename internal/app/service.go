// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/finml/creditserve/internal/adapters/modelstore"
	"github.com/finml/creditserve/internal/domain/explain"
	"github.com/finml/creditserve/internal/domain/predict"
	"github.com/finml/creditserve/internal/domain/schema"
	"github.com/finml/creditserve/internal/domain/types"
	"github.com/finml/creditserve/pkg/logger"
	"github.com/finml/creditserve/pkg/metrics"
)

// Service wires the model store, predictor, and explainer behind the API
// surface. Everything it holds is read-only after Start, so concurrent
// requests need no locking.
type Service struct {
	// Core components
	store     modelstore.Store
	predictor predict.Predictor
	explainer explain.Explainer

	// Configuration
	modelPath      string
	explainEnabled bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelPath sets the artifact path the model store loads from.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithExplainEnabled toggles per-feature attribution in responses.
func WithExplainEnabled(enabled bool) Option {
	return func(s *Service) {
		s.explainEnabled = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Service with the given options applied. Call Start before
// serving requests.
func New(opts ...Option) *Service {
	s := &Service{
		explainEnabled: true,
		logger:         noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = modelstore.New(modelstore.WithPath(s.modelPath))
	s.predictor = predict.New(s.store)
	s.explainer = explain.New(s.store)
	return s
}

// Start loads the model artifact. A failed load is deliberately not fatal:
// the service starts degraded and every /predict answers "model not loaded"
// until the process restarts with a valid artifact.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if err := s.store.Load(ctx); err != nil {
		s.logger.Warn(ctx, "model not loaded; serving degraded",
			logger.String("model_path", s.store.Path()),
			logger.Error(err))
		metrics.UpdateModelLoaded(false)
	} else {
		ensemble, _ := s.store.Get()
		metrics.UpdateModelLoaded(true)
		metrics.UpdateModelTrees(ensemble.NumTrees())
		s.logger.Info(ctx, "model loaded",
			logger.String("model_path", s.store.Path()),
			logger.Int("trees", ensemble.NumTrees()),
			logger.Int("features", ensemble.NumFeatures))
	}
	s.started = true
	return nil
}

// Stop releases the service. There is nothing to tear down beyond logging;
// the model is dropped with the process.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "service stopped")
}

// ModelLoaded reports whether an ensemble is available for scoring.
func (s *Service) ModelLoaded() bool {
	_, ok := s.store.Get()
	return ok
}

// ExplainEnabled reports whether responses carry attribution.
func (s *Service) ExplainEnabled() bool {
	return s.explainEnabled
}

// FeatureNames returns the ordered feature schema.
func (s *Service) FeatureNames() []string {
	return schema.Names()
}

// Normalize maps a decoded JSON payload to a matrix in schema order.
func (s *Service) Normalize(_ context.Context, payload any) (types.Matrix, error) {
	return schema.Normalize(payload)
}

// Predict scores every row of the matrix.
func (s *Service) Predict(ctx context.Context, m types.Matrix) ([]float64, error) {
	start := time.Now()
	scores, err := s.predictor.Predict(ctx, m)
	if err != nil {
		return nil, err
	}
	metrics.RecordInferenceLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordPredictionsServed(len(scores))
	return scores, nil
}

// Explain attributes every row of the matrix.
func (s *Service) Explain(ctx context.Context, m types.Matrix) (types.Attribution, error) {
	start := time.Now()
	attribution, err := s.explainer.Explain(ctx, m)
	if err != nil {
		return types.Attribution{}, err
	}
	metrics.RecordExplanationLatency(float64(time.Since(start).Milliseconds()))
	return attribution, nil
}

// GetStats returns current service statistics.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"model_loaded":    s.ModelLoaded(),
		"model_path":      s.store.Path(),
		"feature_count":   schema.FeatureCount,
		"explain_enabled": s.explainEnabled,
	}
	if ensemble, ok := s.store.Get(); ok {
		stats["model_trees"] = ensemble.NumTrees()
		stats["model_objective"] = ensemble.Objective
	}
	return stats
}

// noopLogger keeps the service usable before a real logger is attached.
type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...logger.Field)  {}
func (noopLogger) Error(context.Context, string, ...logger.Field) {}
func (noopLogger) Debug(context.Context, string, ...logger.Field) {}
func (noopLogger) Warn(context.Context, string, ...logger.Field)  {}
func (noopLogger) Fatal(context.Context, string, ...logger.Field) {}
func (noopLogger) Named(string) logger.Logger                     { return noopLogger{} }
