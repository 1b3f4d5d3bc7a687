package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tokenrelay/internal/logging"
	"tokenrelay/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an X-Request-ID, logs one line per
// request and turns panics into a 500 response.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := requestID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error(c.Request.Context(), "panic",
					append(requestFields(c, id, start), "error", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))...)
				response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "Internal Server Error")
				return
			}

			fields := requestFields(c, id, start)
			for _, err := range c.Errors {
				log.Error(c.Request.Context(), "request_error", append(fields, "error", err.Error())...)
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				log.Warn(c.Request.Context(), "request", fields...)
			default:
				log.Info(c.Request.Context(), "request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, id string, start time.Time) []any {
	return []any{
		"request_id", id,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"client_ip", c.ClientIP(),
		"user_id", c.GetInt64("user_id"),
		"latency", time.Since(start).String(),
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
