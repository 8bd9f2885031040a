package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/apperror"
)

func TestValidPassword(t *testing.T) {
	for p, want := range map[string]bool{
		"Passw0rd!":             true,
		"Aa1_aaaa":              true,
		"short1A!":              true,
		"Aa1!":                  false,
		"alllowercase1!":        false,
		"ALLUPPERCASE1!":        false,
		"NoDigitsHere!":         false,
		"NoSymbols123":          false,
		"Has Space1!":           false,
		"Waytoolongpassword1!x": false,
		"Unicode1!é":            false,
	} {
		assert.Equal(t, want, validPassword(p), p)
	}
}

func TestValidateRegistration(t *testing.T) {
	email, name, err := validateRegistration(" Alice@Example.com ", " Alice ", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
	assert.Equal(t, "Alice", name)

	_, _, err = validateRegistration("not-an-email", "Alice", "Passw0rd!")
	assert.ErrorIs(t, err, apperror.ErrInvalidEmail)

	_, _, err = validateRegistration("a@example.com", "  ", "Passw0rd!")
	assert.ErrorIs(t, err, apperror.ErrInvalidName)

	_, _, err = validateRegistration("a@example.com", "Alice", "password")
	assert.ErrorIs(t, err, apperror.ErrWeakPassword)
}
