package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/northmart/shopd/internal/authorization"
	catalogdomain "github.com/northmart/shopd/internal/catalog/domain"
	orderdomain "github.com/northmart/shopd/internal/order/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	for _, tc := range []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "validation_error"},
		{"bad category name", catalogdomain.ErrInvalidName, http.StatusBadRequest, "validation_error"},
		{"empty order", orderdomain.ErrEmptyOrder, http.StatusBadRequest, "validation_error"},
		{"bad date range", orderdomain.ErrInvalidRange, http.StatusBadRequest, "validation_error"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"invalid actor", authorization.ErrInvalidActor, http.StatusForbidden, "forbidden"},
		{"category in use", catalogdomain.ErrCategoryInUse, http.StatusConflict, "referential_integrity_error"},
		{"product sold", catalogdomain.ErrProductSold, http.StatusConflict, "referential_integrity_error"},
		{"order missing", orderdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantType, payload.Type)
		})
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	engine.GET("/fail", func(c *gin.Context) {
		AbortWithError(c, catalogdomain.ErrCategoryInUse)
	})
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":{"type":"referential_integrity_error","code":"category_in_use","message":"referenced by existing records"}}`,
		rec.Body.String(),
	)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
