// Package xff handles X-Forwarded-For headers from trusted proxies.
package xff

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/packethost/xff"
	"github.com/pkg/errors"
)

// Parse parses a string of comma separated trusted proxies. A trusted proxy can be a CIDR or an IP.
// IPs are converted to CIDR notation with /32 or /128 for IPv4 and IPv6 respectively.
//
// Parse formats proxies appropriate for use with Middleware.
func Parse(trustedProxies string) ([]string, error) {
	var result []string

	for _, cidr := range strings.Split(trustedProxies, ",") {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}

		_, _, err := net.ParseCIDR(cidr)
		if err == nil {
			result = append(result, cidr)
			continue
		}

		// Its not a cidr, but maybe its an IP
		if ip := net.ParseIP(cidr); ip != nil {
			if ip.To4() != nil {
				cidr += "/32"
			} else {
				cidr += "/128"
			}

			result = append(result, cidr)
			continue
		}

		return nil, fmt.Errorf("invalid cidr or ip: %v", cidr)
	}

	return result, nil
}

// Middleware creates a gin middleware that replaces http.Request.RemoteAddr with the
// X-Forwarded-For header address when the request originates from one of allowedSubnets.
//
// allowedSubnets is a slice of CIDR blocks. Individual IPs should be formatted with /32 or /128
// for IPv4 and IPv6 respectively. An empty allowedSubnets produces a no-op middleware.
func Middleware(allowedSubnets []string) (gin.HandlerFunc, error) {
	if len(allowedSubnets) == 0 {
		return func(ctx *gin.Context) { ctx.Next() }, nil
	}

	xffmw, err := xff.New(xff.Options{AllowedSubnets: allowedSubnets})
	if err != nil {
		return nil, errors.Errorf("create forward for handler: %v", err)
	}

	return func(ctx *gin.Context) {
		handler := xffmw.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ctx.Request = r
			ctx.Next()
		}))
		handler.ServeHTTP(ctx.Writer, ctx.Request)
	}, nil
}

// MiddlewareFromUnparsed combines Parse and Middleware for a comma separated trusted proxies
// string.
func MiddlewareFromUnparsed(trustedProxies string) (gin.HandlerFunc, error) {
	allowedSubnets, err := Parse(trustedProxies)
	if err != nil {
		return nil, err
	}

	return Middleware(allowedSubnets)
}
