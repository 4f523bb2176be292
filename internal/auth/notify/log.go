package notify

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// LogSender records emails in the log instead of sending them. It is used
// when no SMTP credentials are configured. The body is not logged because it
// may carry a live reset link.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := checkHeader(to, subject); err != nil {
		return err
	}
	slogx.FromContext(ctx).Warn("email not sent, no SMTP configured",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)),
	)
	return nil
}
