package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := HashPassword(tt.password)
			require.Len(t, digest, DigestLength, "digest should be fixed length")
			require.Equal(t, strings.ToLower(digest), digest, "digest should be lowercase hex")

			for _, c := range digest {
				valid := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
				require.True(t, valid, "digest should only contain hex characters")
			}
		})
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	// No salt: the same input must always produce the same digest within a
	// deployment.
	require.Equal(t, HashPassword("samepassword"), HashPassword("samepassword"))
}

func TestHashPassword_DistinctInputs(t *testing.T) {
	digests := map[string]string{}
	for _, p := range []string{"a", "b", "password", "passwore", "Password", "password "} {
		d := HashPassword(p)
		for other, od := range digests {
			require.NotEqual(t, od, d, "passwords %q and %q should not collide", other, p)
		}
		digests[p] = d
	}
}

func TestVerifyPassword(t *testing.T) {
	digest := HashPassword("correct-password")

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct-password", digest))
	})

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"truncated", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.wrongPassword, digest)
			require.ErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_GarbageDigest(t *testing.T) {
	// A digest that is not even hex still fails cleanly.
	require.ErrorIs(t, VerifyPassword("anything", "not-a-digest"), ErrPasswordMismatch)
	require.ErrorIs(t, VerifyPassword("anything", ""), ErrPasswordMismatch)
}
