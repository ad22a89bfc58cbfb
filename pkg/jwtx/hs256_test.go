package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/terracehq/terrace-auth/pkg/jwtx"
)

func newTestCodec(t *testing.T, secret string) *jwtx.HS256 {
	t.Helper()

	key, err := jwtx.DeriveSigningKey(secret)
	require.NoError(t, err)

	codec, err := jwtx.NewHS256(key, "terrace-auth")
	require.NoError(t, err)
	return codec
}

func testClaims(ttl time.Duration) jwtx.SessionClaims {
	return jwtx.NewSessionClaims(
		"u1", "a@x.com", "Alice", "Anderson", "#7c3aed", false,
		ttl, "terrace-auth", time.Now().UTC(),
	)
}

func TestHS256_SignVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	token, err := codec.Sign(testClaims(24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3, "compact JWS has three segments")

	got, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u1", got.Subject)
	require.Equal(t, "a@x.com", got.Email)
	require.Equal(t, "Alice", got.FirstName)
	require.Equal(t, "Anderson", got.LastName)
	require.Equal(t, "#7c3aed", got.Color)
	require.False(t, got.Admin)
}

func TestHS256_AdminClaimRoundTrip(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	claims := testClaims(time.Hour)
	claims.Admin = true

	token, err := codec.Sign(claims)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	require.True(t, got.Admin)
}

func TestHS256_Expired(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	// Issued two days ago with a one-day TTL: signature fine, expiry not.
	claims := jwtx.NewSessionClaims(
		"u1", "a@x.com", "Alice", "Anderson", "#7c3aed", false,
		24*time.Hour, "terrace-auth", time.Now().UTC().Add(-48*time.Hour),
	)
	token, err := codec.Sign(claims)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestHS256_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	token, err := codec.Sign(testClaims(time.Hour))
	require.NoError(t, err)

	// Flip one bit inside the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256_WrongKey(t *testing.T) {
	signer := newTestCodec(t, "secret-one")
	verifier := newTestCodec(t, "secret-two")

	token, err := signer.Sign(testClaims(time.Hour))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256_Malformed(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"not a jwt", "definitely-not-a-jwt"},
		{"two segments", "aaaa.bbbb"},
		{"garbage segments", "!!!.###.$$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
		})
	}
}

func TestHS256_RejectsOtherAlgorithms(t *testing.T) {
	key, err := jwtx.DeriveSigningKey("test-secret")
	require.NoError(t, err)

	codec, err := jwtx.NewHS256(key, "terrace-auth")
	require.NoError(t, err)

	t.Run("HS384 with the same key", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS384, testClaims(time.Hour))
		token, err := other.SignedString(key)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims(time.Hour))
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.Error(t, err)
	})
}

func TestHS256_IssuerMismatch(t *testing.T) {
	key, err := jwtx.DeriveSigningKey("test-secret")
	require.NoError(t, err)

	signer, err := jwtx.NewHS256(key, "other-service")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256(key, "terrace-auth")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims(
		"u1", "a@x.com", "Alice", "Anderson", "#7c3aed", false,
		time.Hour, "other-service", time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestNewHS256_EmptyKey(t *testing.T) {
	_, err := jwtx.NewHS256(nil, "terrace-auth")
	require.Error(t, err)
}

func TestDeriveSigningKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a, err := jwtx.DeriveSigningKey("secret")
		require.NoError(t, err)
		b, err := jwtx.DeriveSigningKey("secret")
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, jwtx.SigningKeySize)
	})

	t.Run("distinct secrets give distinct keys", func(t *testing.T) {
		a, err := jwtx.DeriveSigningKey("secret-a")
		require.NoError(t, err)
		b, err := jwtx.DeriveSigningKey("secret-b")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := jwtx.DeriveSigningKey("")
		require.Error(t, err)
	})
}
