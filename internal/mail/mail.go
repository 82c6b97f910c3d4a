package mail

import (
	"context"
	"net/mail"
)

type Mail struct {
	To       []string
	From     *mail.Address
	Subject  string
	TextBody string
	HtmlBody string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
