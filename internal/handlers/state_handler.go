package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"roiwatch/internal/supervisor"
)

// StateSource is anything that can report the supervisor's current state.
type StateSource interface {
	Snapshot() supervisor.Snapshot
}

type StateHandler struct {
	src StateSource
}

func NewStateHandler(src StateSource) *StateHandler {
	return &StateHandler{src: src}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// GetState reports the supervisor's lifecycle state, the worker pid and the
// last memory sample.
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.src.Snapshot())
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
