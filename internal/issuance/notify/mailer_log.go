package notify

import (
	"context"
	"log/slog"

	"certify/internal/issuance/models"
)

// LogMailer only logs messages. Used when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg models.Message) error {
	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.FileName)
	}
	m.logger.InfoContext(ctx, "mail not sent, no smtp relay configured",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", attachments,
	)
	return nil
}
