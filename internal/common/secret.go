// Package common contains helpers for handling credentials in memory and in
// log output.
package common

// WipeByteArray zeroes b in place. Safe on nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// MaskToken renders a bearer token for logs: the first four characters
// followed by "***". Short or empty tokens are fully masked.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***"
}
