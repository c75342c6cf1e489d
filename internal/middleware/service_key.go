package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "nivesh/internal/errors"
)

// ServiceKeyHeader carries the service-to-service API key.
const ServiceKeyHeader = "X-API-Key"

// ServiceKeyMiddleware validates the X-API-Key header against the configured
// service API key. Routes behind it are disabled when no key is configured.
func ServiceKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrServiceKeyMissing)
			return
		}
		key := c.GetHeader(ServiceKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
