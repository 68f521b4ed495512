package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/interfaces/http/handlers/testutil"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), "1.2.3", testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/health", nil)
	h.HealthCheck(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), "dev", testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/health", nil)
	h.HealthCheck(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}
