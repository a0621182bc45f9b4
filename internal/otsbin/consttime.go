package otsbin

import "crypto/subtle"

// Equal reports whether a and b hold the same bytes, comparing in constant
// time with respect to the byte values (not the lengths). It examines every
// position when the lengths are equal; a length mismatch short-circuits.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
