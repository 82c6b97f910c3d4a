package mail

import (
	"context"
	"fmt"
	"net/mail"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	ImplicitTLS bool
}

type smtpMailer struct {
	client      *gomail.Client
	fromAddress mail.Address
	logger      *zap.Logger
}

var _ Mailer = (*smtpMailer)(nil)

func NewSMTP(config SMTPConfig, fromAddress mail.Address, logger *zap.Logger) (*smtpMailer, error) {
	opts := []gomail.Option{gomail.WithPort(config.Port)}
	if config.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(config.Username),
			gomail.WithPassword(config.Password),
		)
	}
	if config.ImplicitTLS {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSOpportunistic))
	}
	client, err := gomail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create smtp client: %w", err)
	}
	return &smtpMailer{client: client, fromAddress: fromAddress, logger: logger}, nil
}

func (m *smtpMailer) Send(ctx context.Context, mail Mail) error {
	msg, err := m.message(mail)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	m.logger.Debug("mail sent", zap.Strings("to", mail.To), zap.String("subject", mail.Subject))
	return nil
}

func (m *smtpMailer) message(mail Mail) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	from := m.fromAddress
	if mail.From != nil {
		from = *mail.From
	}
	if err := msg.FromFormat(from.Name, from.Address); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(mail.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(mail.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, mail.TextBody)
	if mail.HtmlBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, mail.HtmlBody)
	}
	return msg, nil
}
