package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"srdashboard/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"valid values", 2, 20, 2, 20},
		{"page below one", 0, 20, constants.DefaultPage, 20},
		{"negative page", -3, 20, constants.DefaultPage, 20},
		{"zero page size", 1, 0, 1, constants.DefaultPageSize},
		{"page size above max", 1, constants.MaxPageSize + 1, 1, constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", constants.DefaultPage, constants.DefaultPageSize},
		{"explicit", "page=3&limit=10", 3, 10},
		{"garbage", "page=abc&limit=xyz", constants.DefaultPage, constants.DefaultPageSize},
		{"zero limit", "limit=0", constants.DefaultPage, constants.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/requests?"+tt.query, nil)

			got := ParsePagination(c)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(5, 0))
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 50}.Offset())
	assert.Equal(t, 18, Pagination{Page: 10, PageSize: 2}.Offset())
}
