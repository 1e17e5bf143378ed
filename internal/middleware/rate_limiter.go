package middleware

import (
	"net/http"
	"strconv"
	"time"

	"tallerpro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a fixed-window limiter per client IP kept in Redis, so
// every API instance shares the same counters. If Redis is unreachable the
// request is let through.
func RateLimiter(rdb *redis.Client, nombre string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ventana := time.Now().Unix() / int64(window.Seconds())
		key := "ratelimit:" + nombre + ":" + c.ClientIP() + ":" + strconv.FormatInt(ventana, 10)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("limiter", nombre).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
