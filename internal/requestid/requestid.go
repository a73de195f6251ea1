// Package requestid tags every request with an ID so log lines for a single
// request can be correlated.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the response header that carries the request ID.
const Header = "X-Request-ID"

const contextKey = "request-id"

// Middleware creates a gin middleware that assigns each request a UUID. The
// ID is echoed on the Header response header. Requests arriving with a
// Header value keep it.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(Header)
		if id == "" {
			id = uuid.New().String()
		}

		ctx.Set(contextKey, id)
		ctx.Header(Header, id)
		ctx.Next()
	}
}

// FromContext retrieves the request ID set by Middleware. It returns an
// empty string when no ID was assigned.
func FromContext(ctx *gin.Context) string {
	return ctx.GetString(contextKey)
}
