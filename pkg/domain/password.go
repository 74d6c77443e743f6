package domain

import (
	"errors"
	"unicode"
)

// minPasswordLen is the minimum accepted password length in runes.
const minPasswordLen = 8

// Password policy failures. Each carries the message shown to the user.
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordNoLower    = errors.New("password must contain a lowercase letter")
	ErrPasswordNoUpper    = errors.New("password must contain an uppercase letter")
	ErrPasswordNoDigit    = errors.New("password must contain a digit")
	ErrPasswordsDontMatch = errors.New("passwords do not match")
)

// ValidatePassword checks a candidate password against the account policy.
// Rules are checked in a fixed order and the first failure wins, so the
// user always sees a single specific reason. Returns nil when the
// password satisfies all rules.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLen {
		return ErrPasswordTooShort
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}

// ValidatePasswordConfirm applies the account policy and then checks the
// confirmation field. Used by the register and reset flows; the policy
// itself stays confirmation-agnostic.
func ValidatePasswordConfirm(password, confirm string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordsDontMatch
	}
	return nil
}
