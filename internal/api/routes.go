package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		RequestID(h.logger),
		Logging(h.logger),
		Metrics(h.metrics),
	)

	// Validation
	mux.Handle("GET /api/v1/tasks/validation/{name}", chain(http.HandlerFunc(h.ValidateTask)))

	// Task definitions
	mux.Handle("GET /api/v1/tasks/definitions", chain(http.HandlerFunc(h.ListDefinitions)))
	mux.Handle("POST /api/v1/tasks/definitions", chain(http.HandlerFunc(h.CreateDefinition)))
	mux.Handle("GET /api/v1/tasks/definitions/{name}", chain(http.HandlerFunc(h.GetDefinition)))

	// App registrations
	mux.Handle("GET /api/v1/apps", chain(http.HandlerFunc(h.ListApps)))
	mux.Handle("POST /api/v1/apps", chain(http.HandlerFunc(h.RegisterApp)))
}
