package issuance

import (
	"log/slog"

	"certify/internal/issuance/handler"
	"certify/internal/issuance/service"
	"certify/internal/platform/config"
)

// Service exposes the claim-to-certificate workflow.
type Service = service.Service

// Handler wires HTTP endpoints to the issuance service.
type Handler = handler.Handler

// NewService constructs the issuance service with required dependencies.
func NewService(reference service.ReferenceSource, renderer service.Renderer, notifier service.Notifier, cfg config.Certificate, opts ...service.Option) *Service {
	return service.New(reference, renderer, notifier, cfg, opts...)
}

// NewHandler constructs the HTTP handler for the claim webhook and operator routes.
func NewHandler(s *Service, log handler.IssuanceLog, checks map[string]handler.HealthCheck, logger *slog.Logger) *Handler {
	return handler.New(s, log, checks, logger)
}
