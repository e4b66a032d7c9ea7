// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKeyType is the type used for the request ID context key.
type RequestIDKeyType string

// RequestIDKey is the key under which the request ID is stored.
const RequestIDKey RequestIDKeyType = "request_id"

// RequestID tags every request with an ID, honoring one supplied by
// the caller via X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID extracts the request ID from a gin context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}
