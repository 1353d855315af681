package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/infrastructure/ratelimit"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

// RateLimit throttles callers per client IP. A limiter error lets the
// request through; an unreachable Redis must not stop webhook delivery.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
