package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := map[string]bool{
		"Str0ng!Pass": true,
		"Şifre123!":   true,
		"Sh0rt!":      false,
		"lowercase1!": false,
		"UPPERCASE1!": false,
		"NoDigits!!":  false,
		"NoSpecial12": false,
	}
	for pw, ok := range cases {
		err := ValidatePassword(pw)
		if ok {
			assert.NoError(t, err, pw)
		} else {
			assert.True(t, errors.Is(err, ErrWeakPassword), pw)
		}
	}
}
