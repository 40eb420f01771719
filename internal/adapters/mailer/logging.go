package mailer

import (
	"context"
	"log/slog"

	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
)

// LoggingMailer records outgoing mail instead of sending it. Used when no
// provider key is configured.
type LoggingMailer struct {
	logger *slog.Logger
}

func NewLoggingMailer(logger *slog.Logger) *LoggingMailer {
	return &LoggingMailer{logger: logger}
}

func (m *LoggingMailer) Send(ctx context.Context, email ports.Email) error {
	m.logger.InfoContext(ctx, "email suppressed",
		"module", "mailer.logging",
		"layer", "adapter",
		"operation", "send",
		"outcome", "success",
		"to", email.To,
		"subject", email.Subject,
		"html_bytes", len(email.HTML),
	)
	return nil
}
