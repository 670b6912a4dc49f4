package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
)

type accessLogEntry struct {
	Timestamp string  `json:"ts"`
	Level     string  `json:"level"`
	RequestID string  `json:"requestId,omitempty"`
	UserID    int     `json:"userId,omitempty"`
	ClientIP  string  `json:"ip"`
	Method    string  `json:"method"`
	Path      string  `json:"path"`
	Status    int     `json:"status"`
	LatencyMs float64 `json:"latencyMs"`
	BodySize  int     `json:"size"`
	UserAgent string  `json:"ua"`
	Error     string  `json:"error,omitempty"`
}

// LoggerMiddleware replaces Gin's default access log with one JSON line per
// request, carrying the request ID and the authenticated user when known.
// Request bodies and tokens are never logged.
func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		entry := accessLogEntry{
			Timestamp: param.TimeStamp.UTC().Format(time.RFC3339Nano),
			Level:     "info",
			ClientIP:  param.ClientIP,
			Method:    param.Method,
			Path:      param.Path,
			Status:    param.StatusCode,
			LatencyMs: float64(param.Latency) / float64(time.Millisecond),
			BodySize:  param.BodySize,
			UserAgent: param.Request.UserAgent(),
			Error:     param.ErrorMessage,
		}
		if param.StatusCode >= 500 {
			entry.Level = "error"
		}
		if v, ok := param.Keys["requestId"].(string); ok {
			entry.RequestID = v
		}
		if v, ok := param.Keys["userId"].(int); ok {
			entry.UserID = v
		}
		b, _ := json.Marshal(entry)
		return string(b) + "\n"
	})
}
