package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of the password.
//
// The digest is unsalted and uniterated: the credential file format stores
// each entry as a bare fixed-length hex digest. It is a known weakness
// (rainbow-table friendly); hardening would require a credential file
// format change.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks a plaintext password against a stored hex digest.
// The comparison is constant-time.
func VerifyPassword(password, digest string) bool {
	sum := sha256.Sum256([]byte(password))
	candidate := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
