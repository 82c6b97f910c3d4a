package mail

import (
	"bytes"
	"fmt"
	"net/url"
	"text/template"

	"github.com/distr-sh/recoverd/internal/types"
)

var recoveryTemplate = template.Must(template.New("recovery").Parse(`Hello,

a recovery of the account {{.Username}} was requested.
To bind a new key to this account, open the link below and submit your new public key:

{{.Link}}

{{if .ExpiresAt}}The link is valid until {{.ExpiresAt.UTC.Format "2006-01-02 15:04 MST"}}.
{{end}}If you did not request this, you can ignore this message.
`))

// RecoveryMail builds the mail sent to an account after a recovery token was issued.
func RecoveryMail(host string, account types.Account, token types.AuthenticationToken) (Mail, error) {
	link, err := url.JoinPath(host, "recovery", account.ID.String())
	if err != nil {
		return Mail{}, fmt.Errorf("invalid host: %w", err)
	}
	link += "?" + url.Values{"token": {token.Token}}.Encode()

	var body bytes.Buffer
	err = recoveryTemplate.Execute(&body, map[string]any{
		"Username":  account.Username,
		"Link":      link,
		"ExpiresAt": token.ExpiresAt,
	})
	if err != nil {
		return Mail{}, err
	}
	return Mail{
		To:       []string{account.Username},
		Subject:  "Account recovery",
		TextBody: body.String(),
	}, nil
}
