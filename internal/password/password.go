// Package password contains utilities for managing passwords.
package password

import (
	"errors"
	"regexp"
	"strings"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength       = 8
	maximumLength       = 128
	minimumEntropyBits  = 50
	minimumAttributeLen = 3
)

var digitsOnlyRe = regexp.MustCompile(`^[0-9]+$`)

var (
	ErrTooShort        = errors.New("password must be at least 8 characters long")
	ErrTooLong         = errors.New("password must be at most 128 characters long")
	ErrEntirelyNumeric = errors.New("password must not be entirely numeric")
	ErrTooSimilar      = errors.New("password is too similar to the account details")
	ErrTooWeak         = errors.New("password is too weak")
)

// ValidatePassword checks password strength. userAttributes are account
// details (username, email, names) the password must not contain.
func ValidatePassword(password string, userAttributes ...string) error {
	if len(password) < minimumLength {
		return ErrTooShort
	}
	if len(password) > maximumLength {
		return ErrTooLong
	}
	if digitsOnlyRe.MatchString(password) {
		return ErrEntirelyNumeric
	}

	lowered := strings.ToLower(password)
	for _, attr := range userAttributes {
		attr = strings.ToLower(attr)
		if local, _, found := strings.Cut(attr, "@"); found {
			attr = local
		}
		if len(attr) >= minimumAttributeLen && strings.Contains(lowered, attr) {
			return ErrTooSimilar
		}
	}

	if err := passwordvalidator.Validate(password, minimumEntropyBits); err != nil {
		return errors.Join(ErrTooWeak, err)
	}

	return nil
}
