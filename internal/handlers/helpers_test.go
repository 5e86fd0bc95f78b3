package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/services"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrDuplicate, http.StatusConflict},
		{services.ErrApartmentUnavailable, http.StatusConflict},
		{services.ErrHasContracts, http.StatusConflict},
		{services.ErrBlockNotEmpty, http.StatusConflict},
		{services.ErrInvalidState, http.StatusUnprocessableEntity},
		{services.ErrApartmentImmutable, http.StatusUnprocessableEntity},
		{services.ErrPaymentExceedsTotal, http.StatusUnprocessableEntity},
		{services.ErrContractNotCompleted, http.StatusUnprocessableEntity},
		{services.ErrInvalidPassword, http.StatusUnauthorized},
		{services.ErrUserInactive, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		handleServiceError(c, tt.err)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := paramID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = paramID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseListQuery_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/contracts", nil)

	query := parseListQuery(c)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 20, query.PerPage)
	assert.Equal(t, "asc", query.SortDir)
}

func TestPaginationResponse(t *testing.T) {
	query := repository.NewListQuery()
	query.Page = 2
	block := paginationResponse(query, 45)

	assert.Equal(t, int64(45), block["total"])
	assert.Equal(t, int64(3), block["total_pages"])
}
