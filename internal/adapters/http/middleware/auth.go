package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/summitpoint/quotedesk/internal/adapters/http/dto"
	"github.com/summitpoint/quotedesk/internal/platform/config"
)

// DefaultKeyHeader is the header carrying the shared access key when no
// override is configured.
const DefaultKeyHeader = "X-Access-Key"

// RequireAccessKey returns middleware that gates the API behind a shared
// access key. The desk is a single-tenant internal tool: there are no
// users, roles or scopes, just one key known to the office installation.
//
// When auth is disabled in configuration the middleware is a no-op, which
// is the local-development default.
func RequireAccessKey(cfg *config.AuthConfig) gin.HandlerFunc {
	header := DefaultKeyHeader
	if cfg != nil && cfg.KeyHeader != "" {
		header = cfg.KeyHeader
	}

	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		supplied := c.GetHeader(header)
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.AccessKey)) != 1 {
			abortWithUnauthorized(c, "a valid access key is required")
			return
		}

		c.Next()
	}
}

// abortWithUnauthorized aborts with a 401 response in the standard envelope.
func abortWithUnauthorized(c *gin.Context, message string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeUnauthorized, message)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, errResp)
}
