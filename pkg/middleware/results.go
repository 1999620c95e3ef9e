package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/query"
)

const resultsKey = "advancedResults"

// ResultSource runs a parsed list query against a store.
type ResultSource func(ctx context.Context, q query.Query) ([]bson.M, int64, error)

// AdvancedResults parses filter, select, sort and paging parameters, runs
// the query and stores the query.Result for the list handler to echo.
func AdvancedResults(source ResultSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := query.Parse(c.Request.URL.Query())
		docs, total, err := source(c.Request.Context(), q)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(resultsKey, query.NewResult(q, docs, total))
		c.Next()
	}
}

// Results returns the result computed by AdvancedResults.
func Results(c *gin.Context) (query.Result, bool) {
	v, ok := c.Get(resultsKey)
	if !ok {
		return query.Result{}, false
	}
	r, ok := v.(query.Result)
	return r, ok
}
