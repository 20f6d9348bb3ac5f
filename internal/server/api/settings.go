// Package api provides HTTP API handlers for Theremin.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/theremin/internal/store"
)

// TuningApplier applies tuning changes to the live tracking session.
type TuningApplier interface {
	ApplyTuning(t store.Tuning) error
}

// SettingsHandler handles HTTP requests for the tracking tuning values.
type SettingsHandler struct {
	store    *store.Store
	applier  TuningApplier
	defaults store.Tuning
}

// NewSettingsHandler creates a new SettingsHandler. The defaults fill in
// values that were never persisted.
func NewSettingsHandler(s *store.Store, applier TuningApplier, defaults store.Tuning) *SettingsHandler {
	return &SettingsHandler{
		store:    s,
		applier:  applier,
		defaults: defaults,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// get handles GET /api/settings and returns the effective tuning.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	tuning, err := h.store.Settings().LoadTuning(h.defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, tuning)
}

// update handles PUT /api/settings: validates, persists, and applies the
// new tuning to the running session.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var tuning store.Tuning
	if err := json.NewDecoder(r.Body).Decode(&tuning); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := tuning.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Settings().SaveTuning(tuning); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	if h.applier != nil {
		if err := h.applier.ApplyTuning(tuning); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to apply settings")
			return
		}
	}

	writeJSON(w, http.StatusOK, tuning)
}
