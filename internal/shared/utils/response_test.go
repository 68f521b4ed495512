package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/shared/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorResponseWithError_AppError(t *testing.T) {
	c, w := newTestContext()

	ErrorResponseWithError(c, fmt.Errorf("wrapped: %w", errors.NewConflictError("Service request number already exists")))

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "conflict", resp.Error.Type)
	assert.Equal(t, "Service request number already exists", resp.Error.Message)
}

func TestErrorResponseWithError_HidesInternalDetail(t *testing.T) {
	c, w := newTestContext()

	ErrorResponseWithError(c, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

func TestListSuccessResponse(t *testing.T) {
	c, w := newTestContext()

	ListSuccessResponse(c, []string{"a", "b"}, 2, 5, 1, 3)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool         `json:"success"`
		Data    ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, PageInfo{Current: 1, Total: 3, Count: 2, TotalRecords: 5}, resp.Data.Pagination)
}

func TestFileResponse(t *testing.T) {
	c, w := newTestContext()

	FileResponse(c, "service-requests-2026-01-02.csv", "text/csv", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="service-requests-2026-01-02.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n", w.Body.String())
}
