// Package notify builds and sends the requester and operator emails for each
// issuance outcome.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"certify/internal/issuance/models"
)

// Mailer delivers one message. Delivery is assumed reliable; there is no retry.
type Mailer interface {
	Send(ctx context.Context, msg models.Message) error
}

// Dispatcher turns outcomes into messages for the requester and the operator.
type Dispatcher struct {
	mailer    Mailer
	operator  string
	logger    *slog.Logger
	templates messageTemplates
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func New(mailer Mailer, operatorEmail string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		mailer:    mailer,
		operator:  operatorEmail,
		logger:    slog.Default(),
		templates: defaultTemplates(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendSuccess mails the certificate to the requester only.
func (d *Dispatcher) SendSuccess(ctx context.Context, runID string, claim models.Claim, fullName string, doc *models.PortableDocument) error {
	msg := models.Message{
		Kind:    models.NotificationSuccess,
		To:      []string{claim.RequesterEmail},
		Subject: subjectSuccess,
		Attachments: []models.Attachment{{
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			Content:     doc.Content,
		}},
	}
	return d.deliver(ctx, runID, msg, htmlBody(d.templates.success), map[string]any{"FullName": fullName, "Journal": Journal})
}

// SendValidationFailure tells the requester the pair was not found and alerts the
// operator. Both sends are attempted even if the first fails.
func (d *Dispatcher) SendValidationFailure(ctx context.Context, runID string, claim models.Claim) error {
	data := claimData(runID, claim)
	return errors.Join(
		d.deliver(ctx, runID, models.Message{
			Kind:    models.NotificationValidationFailure,
			To:      []string{claim.RequesterEmail},
			Subject: subjectValidationFailed,
		}, htmlBody(d.templates.validationFailure), data),
		d.deliver(ctx, runID, models.Message{
			Kind:    models.NotificationValidationFailure,
			To:      []string{d.operator},
			Subject: subjectOperatorNotFound,
		}, textBody(d.templates.operatorValidation), data),
	)
}

// SendTechnicalFailure sends the requester a generic apology and the operator
// every diagnostic field the error carries. Both sends are attempted even if the
// first fails.
func (d *Dispatcher) SendTechnicalFailure(ctx context.Context, runID string, claim models.Claim, te *models.TechnicalError) error {
	data := claimData(runID, claim)
	data["Stage"] = te.Stage
	data["Message"] = te.Message
	data["Location"] = te.Location
	data["Trace"] = te.Trace

	return errors.Join(
		d.deliver(ctx, runID, models.Message{
			Kind:    models.NotificationTechnicalFailure,
			To:      []string{claim.RequesterEmail},
			Subject: subjectTechnicalFailure,
		}, textBody(d.templates.technicalFailure), data),
		d.deliver(ctx, runID, models.Message{
			Kind:    models.NotificationTechnicalFailure,
			To:      []string{d.operator},
			Subject: subjectOperatorFailure,
		}, textBody(d.templates.operatorFailure), data),
	)
}

// deliver fills the message body and sends it. A body that cannot be rendered
// is reported the same way as a transport failure.
func (d *Dispatcher) deliver(ctx context.Context, runID string, msg models.Message, body bodyFunc, data any) error {
	if err := body(&msg, data); err != nil {
		return d.failed(ctx, runID, msg, fmt.Errorf("render %s message: %w", msg.Kind, err))
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return d.failed(ctx, runID, msg, err)
	}
	d.logger.InfoContext(ctx, "notification sent",
		"run_id", runID,
		"kind", msg.Kind,
		"to", msg.To,
	)
	return nil
}

func (d *Dispatcher) failed(ctx context.Context, runID string, msg models.Message, err error) error {
	d.logger.ErrorContext(ctx, "notification not delivered",
		"run_id", runID,
		"kind", msg.Kind,
		"to", msg.To,
		"error", err,
	)
	return &models.DeliveryError{Kind: msg.Kind, Recipient: msg.To[0], Err: err}
}

func claimData(runID string, claim models.Claim) map[string]any {
	return map[string]any{
		"RunID":          runID,
		"RequesterEmail": claim.RequesterEmail,
		"Username":       claim.Username,
		"SubmissionCode": claim.SubmissionCode,
		"Journal":        Journal,
	}
}
