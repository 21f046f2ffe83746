// Package predict defines the contract for scoring normalized matrices
// against the loaded ensemble.
package predict

import (
	"context"
	"fmt"

	"github.com/finml/creditserve/internal/domain/model"
	"github.com/finml/creditserve/internal/domain/types"
)

// Source provides the ensemble to score with. Implemented by the model store.
type Source interface {
	Get() (*model.Ensemble, bool)
}

// Predictor computes one score per matrix row. Deterministic: the same
// matrix against the same model always yields identical scores, in row
// order.
type Predictor interface {
	Predict(ctx context.Context, m types.Matrix) ([]float64, error)
}

// EnsemblePredictor implements Predictor over a model source.
type EnsemblePredictor struct {
	source Source
}

// New creates a predictor reading from source.
func New(source Source) *EnsemblePredictor {
	return &EnsemblePredictor{source: source}
}

// Predict scores every row of the matrix. An empty matrix yields an empty,
// non-nil slice.
func (p *EnsemblePredictor) Predict(_ context.Context, m types.Matrix) ([]float64, error) {
	ensemble, ok := p.source.Get()
	if !ok {
		return nil, ErrModelUnavailable
	}
	scores := make([]float64, 0, m.Rows())
	for i, row := range m {
		s, err := ensemble.Score(row)
		if err != nil {
			return nil, fmt.Errorf("score row %d: %w", i, err)
		}
		scores = append(scores, s)
	}
	return scores, nil
}
