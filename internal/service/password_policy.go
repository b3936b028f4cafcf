package service

import (
	"unicode"

	"github.com/storefront-next/internal/config"
)

const minPasswordLength = 6

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword || target == ErrValidation
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength < minPasswordLength {
		minLength = minPasswordLength
	}
	if len([]rune(password)) < minLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{minLength}}
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if policy.RequireLetter && !hasLetter {
		return passwordPolicyError{key: "error.password_require_letter"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{key: "error.password_require_number"}
	}
	return nil
}
