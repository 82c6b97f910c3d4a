package env

import (
	"errors"
	"net/mail"
)

type MailerType string

const (
	MailerTypeUnspecified MailerType = "unspecified"
	MailerTypeSMTP        MailerType = "smtp"
)

func parseMailerType(value string) (MailerType, error) {
	switch value {
	case string(MailerTypeUnspecified):
		return MailerTypeUnspecified, nil
	case string(MailerTypeSMTP):
		return MailerTypeSMTP, nil
	default:
		return "", errors.New("invalid mailer type")
	}
}

type MailerConfig struct {
	Type        MailerType
	FromAddress mail.Address
	SmtpConfig  *MailerSMTPConfig
}

type MailerSMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	ImplicitTLS bool
}
