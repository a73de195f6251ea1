// Package healthcheck exposes a health endpoint reporting server liveness
// and catalog availability.
package healthcheck

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsondb/jsondb/internal/build"
)

// Client defines health check behavior for a table source.
type Client interface {
	// IsHealthy returns true if the source is healthy, else false.
	IsHealthy(context.Context) bool
}

// TableCounter is optionally implemented by clients that know how many
// tables they serve.
type TableCounter interface {
	Len() int
}

// NewHandler returns a gin.HandlerFunc that provides a health check endpoint behavior. On each
// request it queries client.IsHealthy and returns a 200 if the catalog is healthy, else a 500.
func NewHandler(client Client) gin.HandlerFunc {
	start := time.Now()
	return func(ctx *gin.Context) {
		isHealthy := client.IsHealthy(ctx)

		var tables int
		if counter, ok := client.(TableCounter); ok {
			tables = counter.Len()
		}

		res := struct {
			GitRev           string  `json:"git_rev"`
			Uptime           float64 `json:"uptime"`
			Goroutines       int     `json:"goroutines"`
			Tables           int     `json:"tables"`
			CatalogAvailable bool    `json:"catalog_status"`
		}{
			GitRev:           build.GetGitRevision(),
			Uptime:           time.Since(start).Seconds(),
			Goroutines:       runtime.NumGoroutine(),
			Tables:           tables,
			CatalogAvailable: isHealthy,
		}

		status := http.StatusOK
		if !isHealthy {
			status = http.StatusInternalServerError
		}

		ctx.JSON(status, res)
	}
}
