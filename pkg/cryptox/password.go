package cryptox

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// DigestLength is the length of an encoded password digest in characters.
// SHA-512 produces 64 bytes, rendered as lowercase hex.
const DigestLength = sha512.Size * 2

// ErrPasswordMismatch is returned by VerifyPassword when the password does
// not reproduce the stored digest.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword returns the hex-encoded SHA-512 digest of password.
//
// The digest is deliberately unsalted so it stays compatible with digests
// already at rest: the same password always produces the same digest within
// a deployment. That also means two users sharing a password share a digest,
// and the hash is fast to brute-force offline. Changing either property
// means re-hashing every stored credential, so it is a data-migration
// decision, not a drop-in code change.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the digest of password and compares it to the
// stored digest in constant time with respect to the digest length.
func VerifyPassword(password, digest string) error {
	computed := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
