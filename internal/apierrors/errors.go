package apierrors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrOwnership      = errors.New("ownership mismatch")
	ErrDependency     = errors.New("dependency failure")
	ErrInvalidAccount = errors.New("invalid account")
	ErrTokenNotFound  = errors.New("token not found")
)
