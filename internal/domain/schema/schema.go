// Package schema fixes the feature contract between callers and the model:
// a strictly ordered list of numeric columns that every matrix handed to the
// ensemble must follow.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/finml/creditserve/internal/domain/types"
)

// featureNames mirrors the selected-features artifact produced by the
// training pipeline. Order is part of the model contract: column i of every
// normalized matrix is featureNames[i]. Keep in sync with the artifact by
// hand; nothing at runtime re-checks it.
var featureNames = []string{
	"B_11_last", "B_1_last", "B_2_last", "B_2_mean6",
	"B_37_last", "B_7_mean3", "B_9_last", "D_42_mean12",
	"D_64_O_mean3", "P_2_last", "P_2_mean3", "R_1_mean12",
	"R_1_mean3", "S_3_mean6",
}

// FeatureCount is the fixed width of every normalized matrix.
const FeatureCount = 14

// Names returns the ordered feature names. The result is a copy; callers may
// not mutate the schema.
func Names() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// Normalize maps a decoded JSON payload to a matrix in schema order.
//
// Accepted shapes: a single object (treated as a one-row batch) or an array
// of objects. Missing features are imputed as 0.0; keys outside the schema
// are dropped. Values must be numeric; anything else fails the whole
// request, there is no partial success.
func Normalize(payload any) (types.Matrix, error) {
	records, err := asRecords(payload)
	if err != nil {
		return nil, err
	}

	matrix := make(types.Matrix, 0, len(records))
	for i, rec := range records {
		row := make([]float64, FeatureCount)
		for col, name := range featureNames {
			raw, ok := rec[name]
			if !ok {
				continue // imputed as 0.0
			}
			v, err := coerce(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d, feature %q: %w", ErrMalformedInput, i, name, err)
			}
			row[col] = v
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

// asRecords reduces the two accepted payload shapes to a record slice.
func asRecords(payload any) ([]map[string]any, error) {
	switch p := payload.(type) {
	case map[string]any:
		return []map[string]any{p}, nil
	case []any:
		records := make([]map[string]any, 0, len(p))
		for i, item := range p {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %s, expected an object", ErrMalformedInput, i, jsonTypeName(item))
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: body is %s, expected an object or an array of objects", ErrMalformedInput, jsonTypeName(payload))
	}
}

// coerce converts a decoded JSON value to float64. Decoders are expected to
// use json.Number, but plain float64 is accepted for callers that do not.
func coerce(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot coerce %q to float", n.String())
		}
		return f, nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("cannot coerce %s to float", jsonTypeName(v))
	}
}

// jsonTypeName names a decoded JSON value the way a caller would see it.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return "an unsupported value"
	}
}
