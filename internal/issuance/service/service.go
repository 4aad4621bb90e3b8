// Package service runs one certificate claim from intake to a terminal outcome.
//
// A run moves Validating -> NotFound or Rendering, and ends in exactly one of
// Delivered, ValidationNotified or TechnicalNotified. Nothing is retried and
// Validating is never re-entered.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"certify/internal/issuance/metrics"
	"certify/internal/issuance/models"
	"certify/internal/issuance/validator"
	"certify/internal/platform/config"
	"certify/pkg/requestcontext"
)

var tracer = otel.Tracer("certify/issuance/service")

const defaultSendTimeout = 30 * time.Second

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ReferenceSource,Renderer,Notifier,IssuanceLog

type ReferenceSource interface {
	Snapshot(ctx context.Context) ([]models.ReferenceRecord, error)
}

type Renderer interface {
	Render(ctx context.Context, req models.RenderRequest) (*models.PortableDocument, error)
}

type Notifier interface {
	SendSuccess(ctx context.Context, runID string, claim models.Claim, fullName string, doc *models.PortableDocument) error
	SendValidationFailure(ctx context.Context, runID string, claim models.Claim) error
	SendTechnicalFailure(ctx context.Context, runID string, claim models.Claim, te *models.TechnicalError) error
}

type IssuanceLog interface {
	Append(ctx context.Context, rec models.IssuanceRecord) error
}

// Service orchestrates validation, rendering and notification for one claim at a time.
// It holds no per-run state, so concurrent calls to Process are independent.
type Service struct {
	reference ReferenceSource
	renderer  Renderer
	notifier  Notifier
	cfg       config.Certificate
	log       IssuanceLog
	logger    *slog.Logger
	metrics   *metrics.Metrics
	newRunID  func() string

	// sendTimeout bounds the notification step, which ignores caller cancellation.
	sendTimeout time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithIssuanceLog(log IssuanceLog) Option {
	return func(s *Service) {
		s.log = log
	}
}

func WithRunIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newRunID = fn
	}
}

// WithSendTimeout bounds how long the notifications of one run may take.
func WithSendTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// New constructs a Service.
func New(reference ReferenceSource, renderer Renderer, notifier Notifier, cfg config.Certificate, opts ...Option) *Service {
	s := &Service{
		reference: reference,
		renderer:  renderer,
		notifier:  notifier,
		cfg:       cfg,
		logger:    slog.Default(),
		newRunID:  uuid.NewString,

		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.IssueLocation == nil {
		s.cfg.IssueLocation = time.UTC
	}
	return s
}

// Process resolves one claim. The returned RunResult always carries the terminal
// outcome; the error is non-nil only when a notification could not be delivered,
// in which case it wraps a *models.DeliveryError.
//
// Cancelling ctx aborts loading and rendering, but the run still ends with its
// notifications: they are sent on a context detached from ctx and bounded by the
// send timeout.
func (s *Service) Process(ctx context.Context, claim models.Claim) (result models.RunResult, err error) {
	start := time.Now()
	runID := s.newRunID()
	claim = claim.Normalized()

	ctx, span := tracer.Start(ctx, "issuance.Process")
	span.SetAttributes(attribute.String("run_id", runID))
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(result.Outcome)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "delivery failed")
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveRun(start)
		}
	}()

	logger := s.logger.With(
		"run_id", runID,
		"request_id", requestcontext.RequestID(ctx),
		"username", claim.Username,
		"submission_code", claim.SubmissionCode,
	)

	records, err := s.reference.Snapshot(ctx)
	if err != nil {
		return s.technicalFailure(ctx, logger, runID, claim, "", models.NewTechnicalError(models.StageLoadReference, err))
	}

	match := validator.Validate(claim, records)
	if !match.Matched {
		return s.validationFailure(ctx, logger, runID, claim)
	}

	doc, err := s.render(ctx, models.RenderRequest{
		RunID:          runID,
		FullName:       match.FullName,
		SubmissionCode: claim.SubmissionCode,
		IssueDate:      requestcontext.Now(ctx).In(s.cfg.IssueLocation),
	})
	if err != nil {
		return s.technicalFailure(ctx, logger, runID, claim, match.FullName, models.AsTechnicalError(err))
	}

	sendCtx, cancel := s.notifyContext(ctx)
	sendErr := s.notifier.SendSuccess(sendCtx, runID, claim, match.FullName, doc)
	cancel()
	if sendErr != nil {
		// The certificate exists but never reached the requester: alert the operator
		// and apologise to the requester.
		s.deliveryFailed()
		res, techErr := s.technicalFailure(ctx, logger, runID, claim, match.FullName,
			models.NewTechnicalError(models.StageDeliver, sendErr))
		return res, errors.Join(sendErr, techErr)
	}

	logger.InfoContext(ctx, "certificate delivered", "file_name", doc.FileName)
	return s.finish(ctx, logger, runID, claim, models.OutcomeDelivered, match.FullName, ""), nil
}

// render converts panics in the renderer into technical errors.
func (s *Service) render(ctx context.Context, req models.RenderRequest) (doc *models.PortableDocument, err error) {
	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			doc, err = nil, models.TechnicalErrorFromPanic(v)
		}
		if s.metrics != nil {
			s.metrics.ObserveRender(start)
		}
	}()
	return s.renderer.Render(ctx, req)
}

func (s *Service) validationFailure(ctx context.Context, logger *slog.Logger, runID string, claim models.Claim) (models.RunResult, error) {
	logger.InfoContext(ctx, "claim not found in reference data")
	result := s.finish(ctx, logger, runID, claim, models.OutcomeValidationNotified, "", "claim not found")
	sendCtx, cancel := s.notifyContext(ctx)
	defer cancel()
	if err := s.notifier.SendValidationFailure(sendCtx, runID, claim); err != nil {
		s.deliveryFailed()
		return result, err
	}
	return result, nil
}

func (s *Service) technicalFailure(ctx context.Context, logger *slog.Logger, runID string, claim models.Claim, fullName string, te *models.TechnicalError) (models.RunResult, error) {
	logger.ErrorContext(ctx, "certificate issuance failed",
		"stage", te.Stage,
		"error", te.Message,
		"location", te.Location,
	)
	result := s.finish(ctx, logger, runID, claim, models.OutcomeTechnicalNotified, fullName, te.Error())
	sendCtx, cancel := s.notifyContext(ctx)
	defer cancel()
	if err := s.notifier.SendTechnicalFailure(sendCtx, runID, claim, te); err != nil {
		s.deliveryFailed()
		return result, err
	}
	return result, nil
}

// finish records the outcome. Issuance log failures are logged and never change it.
func (s *Service) finish(ctx context.Context, logger *slog.Logger, runID string, claim models.Claim, outcome models.Outcome, fullName, reason string) models.RunResult {
	if s.metrics != nil {
		s.metrics.IncOutcome(outcome)
	}
	if s.log != nil {
		err := s.log.Append(context.WithoutCancel(ctx), models.IssuanceRecord{
			RunID:          runID,
			Outcome:        outcome,
			RequesterEmail: claim.RequesterEmail,
			Username:       claim.Username,
			SubmissionCode: claim.SubmissionCode,
			FullName:       fullName,
			Reason:         reason,
			RecordedAt:     time.Now().UTC(),
		})
		if err != nil {
			logger.WarnContext(ctx, "issuance log append failed", "error", err)
		}
	}
	return models.RunResult{RunID: runID, Outcome: outcome}
}

// notifyContext keeps the caller's values but not its cancellation.
func (s *Service) notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
}

func (s *Service) deliveryFailed() {
	if s.metrics != nil {
		s.metrics.IncDeliveryFailure()
	}
}
