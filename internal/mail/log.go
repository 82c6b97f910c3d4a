package mail

import (
	"context"

	"go.uber.org/zap"
)

type logMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*logMailer)(nil)

// NewLog returns a Mailer that only writes mails to the log. It is used when
// no MAILER_TYPE is configured.
func NewLog(logger *zap.Logger) *logMailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(ctx context.Context, mail Mail) error {
	m.logger.Info("mail not sent (no mailer configured)",
		zap.Strings("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.String("body", mail.TextBody))
	return nil
}
