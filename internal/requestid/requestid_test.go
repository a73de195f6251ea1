package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	. "github.com/jsondb/jsondb/internal/requestid"
)

func TestMiddlewareAssignsID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(ctx *gin.Context) {
		seen = FromContext(ctx)
		ctx.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("Expected a request ID in the handler context")
	}

	if header := w.Header().Get(Header); header != seen {
		t.Fatalf("Expected header: %v;\nReceived: %v", seen, header)
	}
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "abc-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if header := w.Header().Get(Header); header != "abc-123" {
		t.Fatalf("Expected header: abc-123;\nReceived: %v", header)
	}
}
