package recovery

import (
	"net/mail"
	"strings"

	"github.com/distr-sh/recoverd/internal/types"
)

// KeyBelongsToAccount compares the email address in the key's user id with
// the account username. This only matches a self-declared string and is no
// proof that the caller controls the key.
func KeyBelongsToAccount(key types.KeyDescriptor, account types.Account) bool {
	email := uidEmail(key.UID)
	return email != "" && strings.EqualFold(email, strings.TrimSpace(account.Username))
}

func uidEmail(uid string) string {
	uid = strings.TrimSpace(uid)
	if addr, err := mail.ParseAddress(uid); err == nil {
		return addr.Address
	}
	// user ids are free text and may not be RFC 5322 compliant
	if start, end := strings.LastIndex(uid, "<"), strings.LastIndex(uid, ">"); start >= 0 && end > start {
		return strings.TrimSpace(uid[start+1 : end])
	}
	if strings.Contains(uid, "@") && !strings.ContainsAny(uid, " <>") {
		return uid
	}
	return ""
}
