package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	Output    io.Writer
	SkipPaths []string
}

// Logging returns a request logging middleware emitting one JSON line
// per request.
func Logging(config LoggingConfig) gin.HandlerFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			requestID := ""
			if param.Keys != nil {
				if id, ok := param.Keys[string(RequestIDKey)].(string); ok {
					requestID = id
				}
			}

			rec := map[string]interface{}{
				"timestamp":  param.TimeStamp.Format(time.RFC3339),
				"status":     param.StatusCode,
				"latency":    param.Latency.String(),
				"client_ip":  param.ClientIP,
				"method":     param.Method,
				"path":       param.Path,
				"request_id": requestID,
			}
			if param.ErrorMessage != "" {
				rec["error"] = param.ErrorMessage
			}

			b, _ := json.Marshal(rec)
			return string(b) + "\n"
		},
		Output:    config.Output,
		SkipPaths: config.SkipPaths,
	})
}

// DefaultLogging returns a logging middleware that skips the probe
// endpoints.
func DefaultLogging() gin.HandlerFunc {
	return Logging(LoggingConfig{
		Output:    os.Stdout,
		SkipPaths: []string{"/health", "/ping"},
	})
}
