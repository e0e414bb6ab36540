// Package relay implements the local print relay daemon: a small HTTP
// service that accepts base64-encoded printer command buffers and forwards
// them to a network thermal printer over raw TCP. Point-of-sale frontends
// on the same machine talk to it instead of to the printer directly.
package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform response body for every relay endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}
