package domain

import (
	"crypto/subtle"
)

// ConstantTimeEquals reports whether a and b hold identical bytes using a
// comparison whose running time does not depend on where or whether the two
// buffers differ.
//
// Buffers of different lengths compare unequal immediately; length is public
// information and leaks nothing. Use this wherever authentication tags or
// other secret-derived values are compared outside an AEAD open operation,
// which performs its own constant-time tag check internally.
func ConstantTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
