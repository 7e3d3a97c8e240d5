// internal/utils/pagination_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/products"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsFor(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClampsBadInput(t *testing.T) {
	params := paramsFor(t, "?page=-3&limit=5000&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassesFilters(t *testing.T) {
	params := paramsFor(t, "?page=2&limit=50&sort=price&order=asc&search=mug&tag=ceramic")

	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "price", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "mug", params.Search)
	assert.Equal(t, "ceramic", params.Tag)
}

func TestCreatePaginationResultRoundsPagesUp(t *testing.T) {
	result := CreatePaginationResult(nil, 41, PaginationParams{Page: 1, Limit: 20})

	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}
