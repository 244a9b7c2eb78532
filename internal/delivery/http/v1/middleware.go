package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDCtxKey = "request_id"

// RequestLogger tags every inbound request with an id and logs the
// method and path before the handler chain runs.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(requestIDCtxKey, requestID)

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("inbound request")

		c.Next()
	}
}
