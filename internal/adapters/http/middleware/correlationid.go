package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/summitpoint/quotedesk/internal/platform/logging"
)

const (
	// HeaderCorrelationID carries the transaction-wide identifier. Where
	// the request ID names one HTTP exchange, the correlation ID follows
	// a whole editing transaction across the desk and its collaborators.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates the inbound
// X-Correlation-ID header, or mints one when this request originates the
// transaction. The ID is echoed in the response, stored in the gin
// context and stamped onto the context logger, and collaborator clients
// forward it on their outbound calls.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		contextEnricher: func(ctx context.Context, id string) context.Context {
			// Store the raw ID alongside the enriched logger so
			// collaborator clients can read it back for header
			// propagation.
			return logging.WithCorrelationID(ContextWithCorrelationID(ctx, id), id)
		},
	})
}

// GetCorrelationID returns the correlation ID from the gin context, or "".
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

// MustGetCorrelationID is GetCorrelationID with an "unknown" fallback.
func MustGetCorrelationID(c *gin.Context) string {
	if id := GetCorrelationID(c); id != "" {
		return id
	}

	return "unknown"
}
