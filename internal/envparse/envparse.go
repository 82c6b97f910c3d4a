package envparse

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"
)

func PositiveDuration(value string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err == nil && parsed <= 0 {
		err = errors.New("duration must be positive")
	}
	return parsed, err
}

// NonNegativeDuration accepts "0" to disable the feature the duration belongs to.
func NonNegativeDuration(value string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err == nil && parsed < 0 {
		err = errors.New("duration must not be negative")
	}
	return parsed, err
}

func PositiveNumber(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err == nil && parsed <= 0 {
		err = errors.New("number must be positive")
	}
	return parsed, err
}

func NonNegativeNumber(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err == nil && parsed < 0 {
		err = errors.New("number must not be negative")
	}
	return parsed, err
}

func Float(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

func MailAddress(value string) (mail.Address, error) {
	if parsed, err := mail.ParseAddress(value); err != nil {
		return mail.Address{}, fmt.Errorf("invalid mail address: %w", err)
	} else {
		return *parsed, nil
	}
}
