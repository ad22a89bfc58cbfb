package jwtx

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SigningKeySize is the derived HMAC key length in bytes.
const SigningKeySize = 32

// DeriveSigningKey stretches the deployment secret into a 256-bit HMAC key
// using HKDF-SHA256. The secret is operator-supplied configuration and may
// be low-entropy text; deriving keeps the raw secret out of the signing path
// and leaves room to derive further keys from the same secret under other
// labels.
func DeriveSigningKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("jwtx: empty signing secret")
	}

	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("session-token-hs256"))
	key := make([]byte, SigningKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
