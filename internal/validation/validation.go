package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/distr-sh/recoverd/internal/apierrors"
)

type ValidationFailedError struct {
	message string
}

func NewValidationFailedError(message string) error {
	return &ValidationFailedError{message: message}
}

func (err *ValidationFailedError) Error() string {
	return err.message
}

func (err *ValidationFailedError) Unwrap() error {
	return apierrors.ErrValidation
}

func IsValidationFailedError(err error) bool {
	var target *ValidationFailedError
	return errors.As(err, &target)
}

// ValidateUsername checks that a username is a bare email address.
func ValidateUsername(username string) error {
	if username == "" {
		return NewValidationFailedError("username is empty")
	}
	addr, err := mail.ParseAddress(username)
	if err != nil || addr.Name != "" || !strings.EqualFold(addr.Address, username) {
		return NewValidationFailedError(fmt.Sprintf("username %q is not an email address", username))
	}
	return nil
}
