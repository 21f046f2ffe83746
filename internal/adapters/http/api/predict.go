// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finml/creditserve/internal/domain/explain"
	"github.com/finml/creditserve/internal/domain/predict"
	"github.com/finml/creditserve/internal/domain/schema"
	"github.com/finml/creditserve/internal/domain/types"
	"github.com/finml/creditserve/pkg/metrics"
)

// modelNotLoadedMessage is the fixed degraded-service body. Clients match on
// it; do not reword.
const modelNotLoadedMessage = "Model not loaded"

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
//
// Pipeline per request: availability check -> parse -> normalize -> predict
// -> explain (when enabled) -> format. Each stage returns a typed error and
// the status code is chosen per kind here, not by a blanket catch.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	// Availability first: a degraded service answers identically for every
	// body, including an unparseable one.
	if !h.deps.ModelLoaded() {
		metrics.RecordPredictionError("model_unavailable")
		writeError(w, http.StatusInternalServerError, modelNotLoadedMessage)
		return
	}

	var payload any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		metrics.RecordPredictionError("malformed_input")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dec.More() {
		metrics.RecordPredictionError("malformed_input")
		writeError(w, http.StatusBadRequest, "request body has trailing data after JSON value")
		return
	}

	ctx := r.Context()
	matrix, err := h.deps.Normalize(ctx, payload)
	if err != nil {
		h.fail(w, err)
		return
	}
	metrics.RecordBatchRows(matrix.Rows())

	scores, err := h.deps.Predict(ctx, matrix)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := predictResponse{Predictions: scores, Status: "success"}
	if h.deps.ExplainEnabled() && matrix.Rows() > 0 {
		attribution, err := h.deps.Explain(ctx, matrix)
		if err != nil {
			h.fail(w, err)
			return
		}
		resp.Explanation = explanationFor(attribution, h.deps.FeatureNames())
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps a pipeline error to a response by kind. Malformed input and
// internal computation failures both answer 400 (the serving contract does
// not distinguish them), but they reach this point as distinct kinds and are
// counted separately.
func (h *PredictHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, predict.ErrModelUnavailable), errors.Is(err, explain.ErrModelUnavailable):
		metrics.RecordPredictionError("model_unavailable")
		writeError(w, http.StatusInternalServerError, modelNotLoadedMessage)
	case errors.Is(err, schema.ErrMalformedInput):
		metrics.RecordPredictionError("malformed_input")
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.RecordPredictionError("computation")
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// explanationFor shapes attribution for the response. Only the first row is
// surfaced even for batches; callers wanting more send one record at a time.
func explanationFor(attribution types.Attribution, names []string) *explanationPayload {
	row := attribution.Rows[0]
	values := make([]types.FeatureValue, len(names))
	for i, name := range names {
		values[i] = types.FeatureValue{Feature: name, Value: row[i]}
	}
	return &explanationPayload{
		BaseValue:          attribution.BaseValue,
		BaseValueDefaulted: attribution.BaseValueDefaulted,
		Values:             values,
	}
}
