package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling tags CPU samples taken while serving a request with the route,
// method and channel so flame graphs can be split per endpoint. Health
// probes are left untagged.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" {
			c.Next()
			return
		}

		labels := pyroscope.Labels(profilingLabels(c, route)...)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context, route string) []string {
	kv := []string{"route", route, "method", c.Request.Method}
	if _, ok := c.Get(IdentityKey); ok {
		kv = append(kv, "channel", string(GetIdentity(c).Channel))
	}
	return kv
}
