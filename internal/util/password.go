package util

import (
	"fmt"
	"unicode"
)

const MinPasswordLength = 8

// ValidatePassword 密码策略：至少 8 位，包含大写、小写、数字和特殊字符
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, MinPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	switch {
	case !upper:
		return fmt.Errorf("%w: an uppercase letter is required", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: a lowercase letter is required", ErrWeakPassword)
	case !digit:
		return fmt.Errorf("%w: a digit is required", ErrWeakPassword)
	case !special:
		return fmt.Errorf("%w: a special character is required", ErrWeakPassword)
	}
	return nil
}
