package crypto

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// UnB64 reverses B64. Whitespace or padding errors are malformed input.
func UnB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}
	return b, nil
}
