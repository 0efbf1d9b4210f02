package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
)

// APIKeyHeader is the header carrying the caller's API key
const APIKeyHeader = "X-API-Key"

// APIKeyAuth requires every request to present the configured API key.
// An empty configured key disables the check, which is only acceptable
// outside production; config validation enforces that.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"Invalid or missing API key",
				GetRequestID(c),
			))
			return
		}

		c.Next()
	}
}
