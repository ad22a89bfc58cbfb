package auth_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPasswordResetRequestIsEnumerationSafe verifies the reset request
// endpoint answers identically for known and unknown addresses.
func TestPasswordResetRequestIsEnumerationSafe(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	for _, email := range []string{seedEmail, "nobody@example.com"} {
		resp, body := client.postForm(t, "/v1/password-reset", url.Values{
			"email": {email},
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Empty(t, body)
	}
}

// TestPasswordResetUnknownCode verifies the landing endpoints reject codes
// that were never issued.
func TestPasswordResetUnknownCode(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	resp, _ := client.get(t, "/v1/password-reset/not-a-real-code")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = client.postForm(t, "/v1/password-reset/not-a-real-code", url.Values{
		"new_password":     {"RotatedPass2!"},
		"confirm_password": {"RotatedPass2!"},
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
