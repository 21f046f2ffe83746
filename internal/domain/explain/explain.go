// Package explain decomposes ensemble predictions into additive per-feature
// contributions plus a baseline.
//
// The method is path attribution over the tree structure: every node carries
// the cover-weighted expectation of its subtree, and each split on a row's
// decision path credits the split feature with the change in expectation.
// The invariant callers rely on: baseline + sum(contributions for a row)
// equals the ensemble's raw margin for that row, exactly.
package explain

import (
	"context"
	"fmt"
	"sync"

	"github.com/finml/creditserve/internal/domain/model"
	"github.com/finml/creditserve/internal/domain/types"
)

// Source provides the ensemble to explain. Implemented by the model store.
type Source interface {
	Get() (*model.Ensemble, bool)
}

// Explainer computes per-feature attribution for every matrix row.
type Explainer interface {
	Explain(ctx context.Context, m types.Matrix) (types.Attribution, error)
}

// PathExplainer implements Explainer. Node expectations are derived once on
// first use and shared across requests; the ensemble is immutable after
// startup, so no further synchronization is needed.
type PathExplainer struct {
	source Source

	once     sync.Once
	perTree  [][]float64 // node expectations, one slice per tree
	baseline float64
}

// New creates a path explainer reading from source.
func New(source Source) *PathExplainer {
	return &PathExplainer{source: source}
}

// Explain attributes every row of the matrix. Contribution columns follow
// the same order as the matrix columns, i.e. feature-schema order.
func (e *PathExplainer) Explain(_ context.Context, m types.Matrix) (types.Attribution, error) {
	ensemble, ok := e.source.Get()
	if !ok {
		return types.Attribution{}, ErrModelUnavailable
	}
	e.once.Do(func() { e.prepare(ensemble) })

	rows := make([][]float64, 0, m.Rows())
	for i, row := range m {
		contrib, err := e.attributeRow(ensemble, row)
		if err != nil {
			return types.Attribution{}, fmt.Errorf("attribute row %d: %w", i, err)
		}
		rows = append(rows, contrib)
	}
	return types.Attribution{
		BaseValue:          e.baseline,
		BaseValueDefaulted: ensemble.BaseScore.Defaulted,
		Rows:               rows,
	}, nil
}

// prepare computes node expectations and the ensemble baseline.
func (e *PathExplainer) prepare(ensemble *model.Ensemble) {
	e.perTree = make([][]float64, len(ensemble.Trees))
	baseline := ensemble.BaseScore.Value
	for i := range ensemble.Trees {
		exp := ensemble.Trees[i].Expectations()
		e.perTree[i] = exp
		baseline += exp[0]
	}
	e.baseline = baseline
}

// attributeRow walks every tree's decision path for one row, crediting each
// split feature with the change in subtree expectation.
func (e *PathExplainer) attributeRow(ensemble *model.Ensemble, row []float64) ([]float64, error) {
	if len(row) != ensemble.NumFeatures {
		return nil, fmt.Errorf("%w: row has %d values, model expects %d", model.ErrRowWidth, len(row), ensemble.NumFeatures)
	}
	contrib := make([]float64, ensemble.NumFeatures)
	for ti := range ensemble.Trees {
		t := &ensemble.Trees[ti]
		exp := e.perTree[ti]
		idx := 0
		for !t.Nodes[idx].IsLeaf {
			n := t.Nodes[idx]
			next := n.Left
			if row[n.FeatureIdx] > n.Threshold {
				next = n.Right
			}
			contrib[n.FeatureIdx] += exp[next] - exp[idx]
			idx = next
		}
	}
	return contrib, nil
}
