package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ericfisherdev/codereview/internal/domain"
)

// ErrorNormalizer converts any error into the single wire shape every
// endpoint shares, logging full detail server-side while keeping
// internal failures opaque to clients.
type ErrorNormalizer struct {
	logger *slog.Logger
}

// NewErrorNormalizer creates a normalizer backed by the given logger.
func NewErrorNormalizer(logger *slog.Logger) *ErrorNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorNormalizer{logger: logger}
}

// Respond writes the normalized error response for err. Operational
// domain errors keep their own status and message; everything else is
// collapsed to a generic 500 so internals never leak.
func (n *ErrorNormalizer) Respond(c *gin.Context, err error) {
	requestID := n.getOrCreateRequestID(c)
	n.logError(c, err, requestID)

	status, message := n.normalize(err)
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

// getOrCreateRequestID returns the request ID set by the middleware
// chain, falling back to the inbound header or a fresh UUID so every
// logged error carries one.
func (n *ErrorNormalizer) getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		c.Set("request_id", id)
		return id
	}
	requestID := uuid.New().String()
	c.Set("request_id", requestID)
	c.Header("X-Request-ID", requestID)
	return requestID
}

// normalize maps an error to the client-facing status and message.
func (n *ErrorNormalizer) normalize(err error) (int, string) {
	domainErr, ok := domain.AsError(err)
	if !ok || !domainErr.IsOperational() {
		return http.StatusInternalServerError, "Internal server error"
	}
	return domainErr.HTTPStatus(), domainErr.Message
}

// logError records the full error server-side with request context.
func (n *ErrorNormalizer) logError(c *gin.Context, err error, requestID string) {
	attrs := []any{
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("remote_addr", c.ClientIP()),
	}

	if domainErr, ok := domain.AsError(err); ok {
		attrs = append(attrs,
			slog.String("error_type", string(domainErr.Type)),
			slog.String("error_code", domainErr.Code),
			slog.String("error_message", domainErr.Message),
			slog.Int("status", domainErr.HTTPStatus()),
		)
		if domainErr.Cause != nil {
			attrs = append(attrs, slog.String("underlying_error", domainErr.Cause.Error()))
		}
		for key, value := range domainErr.Details {
			if !isSensitiveField(key) {
				attrs = append(attrs, slog.Any(fmt.Sprintf("detail_%s", key), value))
			}
		}
		n.logger.Error("request failed", attrs...)
		return
	}

	attrs = append(attrs, slog.String("error", err.Error()))
	n.logger.Error("unexpected error", attrs...)
}

// isSensitiveField reports whether a detail key must never reach the
// logs.
func isSensitiveField(field string) bool {
	switch field {
	case "password", "token", "secret", "key", "authorization",
		"cookie", "session", "access_token", "refresh_token", "jwt", "api_key":
		return true
	}
	return false
}
