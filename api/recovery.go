package api

import (
	"strings"

	"github.com/distr-sh/recoverd/internal/validation"
	"github.com/google/uuid"
)

// Header is part of every response envelope. Status is either "success" or
// "error".
type Header struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every response. Body is omitted for errors.
type Response struct {
	Header Header `json:"header"`
	Body   any    `json:"body,omitempty"`
}

type CompleteRecoveryRequest struct {
	Token string `json:"token"`
	Key   string `json:"key"`
}

type RequestRecoveryRequest struct {
	Username string `json:"username"`
}

func (r *RequestRecoveryRequest) Validate() error {
	return validation.ValidateUsername(strings.TrimSpace(r.Username))
}

type KeyDescriptor struct {
	Fingerprint string `json:"fingerprint"`
	KeyID       string `json:"key_id"`
	Bits        int    `json:"bits"`
	UID         string `json:"uid"`
	Type        string `json:"type"`
}

type CompleteRecoveryResponse struct {
	Header Header        `json:"header"`
	Body   KeyDescriptor `json:"body"`
}

type TokenStatus struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	Valid     bool      `json:"valid"`
}

type CheckTokenResponse struct {
	Header Header      `json:"header"`
	Body   TokenStatus `json:"body"`
}
