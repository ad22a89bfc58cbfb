package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure sentinels. All three are terminal for the token in
// hand: re-presenting it will fail the same way.
var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
)

// HS256 signs and verifies session tokens with a single symmetric key. The
// key is fixed at construction and never mutated, so one instance is safe to
// share across every request handler without locking.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 builds a codec from a signing key, typically the output of
// DeriveSigningKey. The key must be non-empty.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) == 0 {
		return nil, errors.New("jwtx: empty signing key")
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Issuer returns the issuer name stamped on and required of tokens.
func (h *HS256) Issuer() string { return h.issuer }

// Sign produces a compact signed token for the claims.
func (h *HS256) Sign(claims SessionClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.key)
}

// Verify checks the signature and expiry of a token and returns its claims.
// Only HS256 is accepted; a token carrying any other algorithm header fails
// as if its signature were invalid.
//
// Failures map to exactly one of ErrMalformed, ErrInvalidSig, or ErrExpired.
func (h *HS256) Verify(tokenStr string) (SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return h.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return SessionClaims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return SessionClaims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return SessionClaims{}, ErrInvalidSig
		default:
			return SessionClaims{}, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, ErrMalformed
	}

	if h.issuer != "" && claims.Issuer != h.issuer {
		return SessionClaims{}, ErrInvalidSig
	}

	return *claims, nil
}
