package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const (
	tokenSecretBytes  = 32
	TokenSecretLength = 2 * tokenSecretBytes
)

func GenerateTokenSecret() (string, error) {
	secretBytes := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(secretBytes), nil
}

func NormalizeTokenSecret(secret string) string {
	return strings.ToLower(strings.TrimSpace(secret))
}

// IsWellFormedTokenSecret reports whether secret could have been produced by
// GenerateTokenSecret. Secrets that fail this check never match a stored token.
func IsWellFormedTokenSecret(secret string) bool {
	if len(secret) != TokenSecretLength {
		return false
	}
	_, err := hex.DecodeString(secret)
	return err == nil
}

func TokenSecretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
