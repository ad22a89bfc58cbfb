package auth_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/terracehq/terrace-auth/pkg/authapi"
)

// TestLoginSessionLogoutFlow walks the full cookie lifecycle: login sets the
// session cookie, the session endpoint reads it back, logout clears it.
func TestLoginSessionLogoutFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	// Anonymous session read is unauthorized.
	resp, _ := client.get(t, "/v1/session")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login as the seed user.
	session := client.login(t, seedEmail, seedPassword)
	require.Equal(t, seedEmail, session.Email)
	require.True(t, session.Admin)
	require.NotEmpty(t, session.Token)

	// The cookie jar now carries the session.
	resp, body := client.get(t, "/v1/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var current authapi.SessionResponse
	require.NoError(t, json.Unmarshal(body, &current))
	require.Equal(t, session.ID, current.ID)
	require.Empty(t, current.Token)

	// Logout clears the cookie; the next read is anonymous again.
	resp, _ = client.postForm(t, "/v1/logout", url.Values{})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = client.get(t, "/v1/session")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestLoginRejectsBadCredentials verifies wrong passwords and unknown emails
// produce the same generic failure.
func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	for _, form := range []url.Values{
		{"email": {seedEmail}, "password": {"WrongPass1!"}},
		{"email": {"nobody@example.com"}, "password": {seedPassword}},
	} {
		resp, body := client.postForm(t, "/v1/login", form)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errResp authapi.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		require.Equal(t, "invalid_credentials", errResp.Error)
	}
}
