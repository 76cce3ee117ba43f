package email

import (
	"context"

	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// LogSender loguea el mensaje y lo descarta. Solo para desarrollo: el cuerpo
// incluye links de confirmación.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger.From(ctx).Info("email (log driver)",
		logger.Component("email.log"),
		logger.Recipient(to),
		logger.String("subject", subject),
		logger.String("text", textBody),
	)
	return nil
}
