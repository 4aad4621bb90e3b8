package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"certify/internal/issuance/intake"
	"certify/internal/issuance/models"
	dErrors "certify/pkg/domain-errors"
	"certify/pkg/platform/httputil"
	"certify/pkg/requestcontext"
)

const (
	maxEventBytes     = 64 << 10
	defaultListLimit  = 50
	maxListLimit      = 500
	healthCheckBudget = 2 * time.Second
)

// Service runs one claim to a terminal outcome.
type Service interface {
	Process(ctx context.Context, claim models.Claim) (models.RunResult, error)
}

// IssuanceLog lists recent runs for operators.
type IssuanceLog interface {
	ListRecent(ctx context.Context, limit int) ([]models.IssuanceRecord, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler exposes the claim webhook and the operator endpoints.
type Handler struct {
	service Service
	log     IssuanceLog
	checks  map[string]HealthCheck
	logger  *slog.Logger
}

// New constructs a handler. log may be nil, in which case /v1/issuances is not mounted.
func New(service Service, log IssuanceLog, checks map[string]HealthCheck, logger *slog.Logger) *Handler {
	return &Handler{service: service, log: log, checks: checks, logger: logger}
}

// Register mounts the issuance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Post("/v1/claims", h.HandleClaim)
	if h.log != nil {
		r.Get("/v1/issuances", h.HandleListIssuances)
	}
}

// HandleClaim handles POST /v1/claims. The run is synchronous: the response
// carries the terminal outcome.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable request body"))
		return
	}
	ev, err := intake.DecodeEvent(body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	claim, err := intake.ParseValues(ev.Values, requestcontext.Now(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "rejected claim event", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Process(ctx, claim)
	if err != nil {
		h.logger.ErrorContext(ctx, "claim run ended with delivery failure",
			"request_id", requestID,
			"run_id", result.RunID,
			"outcome", result.Outcome,
			"error", err,
		)
		httputil.WriteJSON(w, deliveryStatus(err), ClaimResponse{
			RunID:   result.RunID,
			Outcome: string(result.Outcome),
			Error:   "notification delivery failed",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ClaimResponse{RunID: result.RunID, Outcome: string(result.Outcome)})
}

// HandleListIssuances handles GET /v1/issuances?limit=N.
func (h *Handler) HandleListIssuances(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.log.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list issuances failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list issuances"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleHealth reports 200 when every dependency check passes, 503 otherwise.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckBudget)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}

// deliveryStatus maps a mail transport failure to 502 and anything else to 500.
func deliveryStatus(err error) int {
	var de *models.DeliveryError
	if errors.As(err, &de) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
