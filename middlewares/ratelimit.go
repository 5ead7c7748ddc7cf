package middlewares

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/ratelimit"
)

// RateLimitMiddleware limits each user to the limiter's window on one route.
// Limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, route string, m *metrics.Metrics, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := route + ":" + UserID(c)
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable", "route", route, "err", err)
			c.Next()
			return
		}
		if !allowed {
			if m != nil {
				m.RateLimitRejected.WithLabelValues(route).Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down"})
			return
		}
		c.Next()
	}
}
