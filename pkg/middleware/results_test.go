package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

func TestAdvancedResults(t *testing.T) {
	var seen query.Query
	source := func(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
		seen = q
		return []bson.M{{"_id": "a"}, {"_id": "b"}}, 5, nil
	}
	g := gin.New()
	g.Use(Errors())
	g.GET("/list", AdvancedResults(source), func(c *gin.Context) {
		r, ok := Results(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, r)
	})

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/list?page=2&limit=2&housing=true", nil))
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, true, seen.Filter["housing"])

	var got query.Result
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.True(t, got.Success)
	require.Equal(t, 2, got.Count)
	require.Equal(t, &query.PageRef{Page: 3, Limit: 2}, got.Pagination.Next)
	require.Equal(t, &query.PageRef{Page: 1, Limit: 2}, got.Pagination.Prev)
}

func TestAdvancedResultsSourceError(t *testing.T) {
	called := false
	g := gin.New()
	g.Use(Errors())
	g.GET("/list", AdvancedResults(func(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
		return nil, 0, weberr.Internal(errors.New("mongo down"), "Server Error")
	}), func(c *gin.Context) { called = true })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusInternalServerError, rw.Code)
	require.False(t, called)
}
