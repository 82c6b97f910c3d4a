package httpstatus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrHttpStatus = errors.New("non-ok http status")

// StatusError carries the status of a failed response and the message of its
// error envelope, or the raw body if it has none.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (err *StatusError) Error() string {
	if err.Message != "" {
		return fmt.Sprintf("%v: %v (%v)", ErrHttpStatus, err.Status, err.Message)
	}
	return fmt.Sprintf("%v: %v", ErrHttpStatus, err.Status)
}

func (err *StatusError) Unwrap() error {
	return ErrHttpStatus
}

func CheckStatus(r *http.Response, err error) (*http.Response, error) {
	if err != nil || StatusOK(r) {
		return r, err
	}
	statusErr := &StatusError{StatusCode: r.StatusCode, Status: r.Status}
	if errorBody, err := io.ReadAll(r.Body); err == nil {
		statusErr.Message = errorMessage(errorBody)
	}
	return r, statusErr
}

func StatusOK(r *http.Response) bool {
	return 200 <= r.StatusCode && r.StatusCode < 300
}

func errorMessage(body []byte) string {
	var envelope struct {
		Header struct {
			Message string `json:"message"`
		} `json:"header"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Header.Message != "" {
		return envelope.Header.Message
	}
	return strings.TrimSpace(string(body))
}
