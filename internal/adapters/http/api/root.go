// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// livenessMessage is the static root response used for liveness checks.
const livenessMessage = "Credit Default Prediction API is running. Use /predict endpoint."

// RootHandler answers the liveness probe at the service root.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests. The "/" pattern catches every path not
// claimed by another route, so anything but the exact root is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(livenessMessage))
}
