package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/terracehq/terrace-auth/pkg/authapi"
)

// TestLivezEndpoint verifies the liveness check endpoint.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	resp, body := client.get(t, "/livez")
	assertHealthy(t, resp, body)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check endpoint reports its
// dependency checks.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	resp, body := client.get(t, "/readyz")
	assertHealthy(t, resp, body)

	var health authapi.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)

	t.Logf("Readyz endpoint is healthy")
}
