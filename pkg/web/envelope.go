// Package web holds the uniform response envelopes.
package web

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the success shape returned by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data"`
}

// Failure is the error shape returned by every endpoint.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Empty is the payload of delete responses.
var Empty = struct{}{}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// RespondList writes a success envelope carrying a count.
func RespondList(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Count: &count, Data: data})
}

// Fail writes a failure envelope and aborts the chain.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Failure{Success: false, Error: msg})
}
