// Package memzero scrubs secret material (content keys, derived keys,
// private key DER) once it is no longer needed.
package memzero

import "crypto/subtle"

// Zero overwrites every given buffer with zeros.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	}
}
