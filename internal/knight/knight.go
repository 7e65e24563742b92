package knight

import (
	"log/slog"

	"knights/internal/knight/handler"
	"knights/internal/knight/metrics"
	"knights/internal/knight/service"
)

// Service exposes the knight use cases.
type Service = service.Service

// Handler wires HTTP endpoints to the knight service.
type Handler = handler.Handler

// NewService constructs the knight service over store with logging and metrics.
func NewService(store service.Store, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	return service.New(store, service.WithLogger(logger), service.WithMetrics(m))
}

// NewHandler constructs the HTTP handler for the /v1/knights routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
