package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/web"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

// Errors renders the last error attached with c.Error as the failure
// envelope. It is the only place request failures are translated.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, msg := weberr.Response(err)
		if status >= http.StatusInternalServerError {
			logger.WithFields(map[string]interface{}{
				"request_id": RequestID(c),
				"path":       c.Request.URL.Path,
			}).Errorf("request failed: %v", err)
		}
		web.Fail(c, status, msg)
	}
}

// Recovery turns a panic into the 500 failure envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(map[string]interface{}{
			"request_id": RequestID(c),
			"path":       c.Request.URL.Path,
		}).Errorf("panic: %v", recovered)
		web.Fail(c, http.StatusInternalServerError, "Server Error")
	})
}
