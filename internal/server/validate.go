package server

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"sealchat/internal/apperror"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 20
	maxNameLength     = 64
	passwordSymbols   = "@$!%*?&_"
)

// validPassword reports whether p is 8-20 characters drawn from letters,
// digits and @$!%*?&_ with at least one of each class.
func validPassword(p string) bool {
	if len(p) < minPasswordLength || len(p) > maxPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return upper && lower && digit && symbol
}

func normaliseEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

func validateRegistration(email, name, password string) (string, string, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return "", "", err
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", "", apperror.ErrInvalidName
	}
	if !validPassword(password) {
		return "", "", apperror.ErrWeakPassword
	}
	return email, name, nil
}

// looksLikePublicKey is a shape check only; the relay never parses keys.
func looksLikePublicKey(armor string) bool {
	armor = strings.TrimSpace(armor)
	return strings.HasPrefix(armor, "-----BEGIN PUBLIC KEY-----") &&
		strings.HasSuffix(armor, "-----END PUBLIC KEY-----")
}
