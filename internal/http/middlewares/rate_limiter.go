package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/observability"
	"github.com/jobdeck/jobdeck/internal/ratelimit"
)

// RateLimit enforces an approximate sliding-window limit per
// (category, client address). Counters live in the shared store so
// the limit holds across processes; if that store is down the
// limiter fails open.
func RateLimit(limiter *ratelimit.Limiter, metrics *observability.Prom, category string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + category + ":" + clientIP(c)

		if !limiter.Check(c.Request.Context(), key, max, window) {
			if metrics != nil {
				metrics.RateLimitDecisions.WithLabelValues(category, "rejected").Inc()
			}

			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again later.",
				},
			})

			return
		}

		if metrics != nil {
			metrics.RateLimitDecisions.WithLabelValues(category, "allowed").Inc()
		}

		c.Next()
	}
}

// clientIP prefers the first X-Forwarded-For entry (the original
// client when behind a proxy) and falls back to the direct
// connection address.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])

		if first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))

	if err == nil && host != "" {
		return host
	}

	if c.Request.RemoteAddr != "" {
		return c.Request.RemoteAddr
	}

	return "unknown"
}
