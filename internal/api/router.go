// Package api exposes the watchdog's optional introspection endpoint. It
// reports the supervisor's own state; the worker's /status endpoint is a
// separate surface served by the worker itself.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"roiwatch/internal/handlers"
)

type Router struct {
	*mux.Router
}

func NewRouter(src handlers.StateSource) *Router {
	r := mux.NewRouter()

	stateHandler := handlers.NewStateHandler(src)

	r.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/state", stateHandler.GetState).Methods(http.MethodGet)

	return &Router{Router: r}
}
