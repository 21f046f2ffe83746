// Package types contains common types used across the application
package types

// Matrix is a rectangular numeric table: rows are input records, columns
// follow the fixed feature-schema order.
type Matrix [][]float64

// Rows returns the number of records in the matrix.
func (m Matrix) Rows() int {
	return len(m)
}

// FeatureValue pairs a feature name with its attribution value.
type FeatureValue struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Attribution is the additive decomposition of the model's raw output:
// BaseValue + sum(Rows[i]) equals the margin for row i.
type Attribution struct {
	// BaseValue is the expected model output over the training distribution.
	BaseValue float64

	// BaseValueDefaulted reports that no usable baseline could be decoded
	// from the model artifact and 0 was substituted.
	BaseValueDefaulted bool

	// Rows holds one contribution per feature, per input row, in
	// feature-schema order.
	Rows [][]float64
}
