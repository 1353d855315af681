package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler_AllUp(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
	}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	h.HealthCheck(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "up", body.Dependencies["database"])
}

func TestHealthHandler_DependencyDown(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return assert.AnError }),
	}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	h.HealthCheck(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "down", body.Dependencies["redis"])
	assert.Equal(t, "up", body.Dependencies["database"])
}
