// Package model implements the boosted-tree ensemble the service scores
// with: the artifact format, structural validation, and deterministic
// margin/score computation.
//
// Trees are stored as flat node arrays with child indexes, the way the
// training pipeline exports them. Child indexes are strictly greater than
// their parent's index, which rules out cycles and lets per-node
// expectations be computed in a single reverse pass.
package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Node is one split or leaf in a tree.
type Node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	LeafValue  float64 `json:"leaf_value"`
	Cover      float64 `json:"cover"`
	IsLeaf     bool    `json:"is_leaf"`
}

// Tree is a single regression tree of the ensemble.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Ensemble is the additive collection of trees plus the global bias and the
// link function encoded by the training objective.
type Ensemble struct {
	BaseScore   BaseScore `json:"base_score"`
	Objective   string    `json:"objective"`
	NumFeatures int       `json:"num_features"`
	Trees       []Tree    `json:"trees"`
}

// ObjectiveBinaryLogistic is the only objective with a non-identity link.
const ObjectiveBinaryLogistic = "binary:logistic"

// BaseScore decodes the ensemble's global bias. Exporters disagree on the
// encoding: some write a scalar, others a one-element array. Scalar is tried
// first, then the first element of an array; when neither applies the value
// defaults to 0 and Defaulted is set so callers can surface the substitution
// instead of silently reporting a zero baseline.
type BaseScore struct {
	Value     float64
	Defaulted bool
}

// UnmarshalJSON implements the scalar-then-collection decoding policy. The
// scalar is decoded through a pointer: an explicit null leaves it nil and
// falls through to the flagged default instead of passing as a real zero.
func (b *BaseScore) UnmarshalJSON(data []byte) error {
	var scalar *float64
	if err := json.Unmarshal(data, &scalar); err == nil && scalar != nil {
		b.Value = *scalar
		b.Defaulted = false
		return nil
	}
	var list []float64
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		b.Value = list[0]
		b.Defaulted = false
		return nil
	}
	b.Value = 0
	b.Defaulted = true
	return nil
}

// MarshalJSON writes the scalar form.
func (b BaseScore) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(b.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal base score: %w", err)
	}
	return out, nil
}

// Parse decodes and validates an ensemble artifact.
func Parse(data []byte) (*Ensemble, error) {
	var e Ensemble
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	// An absent base_score never reaches UnmarshalJSON; it is the same
	// substituted zero as an undecodable one and gets the same flag.
	var probe struct {
		BaseScore json.RawMessage `json:"base_score"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.BaseScore == nil {
		e.BaseScore.Defaulted = true
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Validate checks the structural invariants traversal and attribution rely
// on: in-range feature and child indexes, children after their parent, and
// positive cover below every split.
func (e *Ensemble) Validate() error {
	if e.NumFeatures <= 0 {
		return fmt.Errorf("%w: num_features must be positive", ErrInvalidModel)
	}
	if len(e.Trees) == 0 {
		return fmt.Errorf("%w: ensemble has no trees", ErrInvalidModel)
	}
	for ti, t := range e.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d has no nodes", ErrInvalidModel, ti)
		}
		for ni, n := range t.Nodes {
			if n.IsLeaf {
				continue
			}
			if n.FeatureIdx < 0 || n.FeatureIdx >= e.NumFeatures {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d, have %d features", ErrInvalidModel, ti, ni, n.FeatureIdx, e.NumFeatures)
			}
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has out-of-order children", ErrInvalidModel, ti, ni)
			}
			if t.Nodes[n.Left].Cover <= 0 || t.Nodes[n.Right].Cover <= 0 {
				return fmt.Errorf("%w: tree %d node %d has children without cover", ErrInvalidModel, ti, ni)
			}
		}
	}
	return nil
}

// NumTrees returns the number of trees in the ensemble.
func (e *Ensemble) NumTrees() int {
	return len(e.Trees)
}

// Leaf walks the tree for one row and returns the index of the leaf reached.
func (t *Tree) Leaf(row []float64) int {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.IsLeaf {
			return idx
		}
		if row[n.FeatureIdx] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Expectations returns the cover-weighted expected value of every node,
// computed bottom-up from the leaves. Expectations[0] is the tree's expected
// output over the training distribution.
func (t *Tree) Expectations() []float64 {
	exp := make([]float64, len(t.Nodes))
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := t.Nodes[i]
		if n.IsLeaf {
			exp[i] = n.LeafValue
			continue
		}
		lc, rc := t.Nodes[n.Left].Cover, t.Nodes[n.Right].Cover
		exp[i] = (lc*exp[n.Left] + rc*exp[n.Right]) / (lc + rc)
	}
	return exp
}

// Margin computes the raw additive output for one row: base score plus the
// leaf value of every tree.
func (e *Ensemble) Margin(row []float64) (float64, error) {
	if len(row) != e.NumFeatures {
		return 0, fmt.Errorf("%w: row has %d values, model expects %d", ErrRowWidth, len(row), e.NumFeatures)
	}
	margin := e.BaseScore.Value
	for i := range e.Trees {
		t := &e.Trees[i]
		margin += t.Nodes[t.Leaf(row)].LeafValue
	}
	return margin, nil
}

// Score computes the served output for one row, applying the link the
// objective encodes. Only binary:logistic carries a non-identity link; every
// other objective is served in margin space.
func (e *Ensemble) Score(row []float64) (float64, error) {
	margin, err := e.Margin(row)
	if err != nil {
		return 0, err
	}
	if e.Objective == ObjectiveBinaryLogistic {
		return sigmoid(margin), nil
	}
	return margin, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
