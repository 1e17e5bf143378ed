package handler

import (
	"context"
	"net/http"
	"time"

	"tallerpro/internal/infra"
	"tallerpro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Sondas are the dependencies /health looks at.
type Sondas struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Mailer  *infra.Mailer
	Almacen *infra.Almacen
}

type healthResponse struct {
	OK       bool   `json:"ok"`
	DB       string `json:"db"`
	Redis    string `json:"redis"`
	Storage  string `json:"storage"`
	SMTP     string `json:"smtp"`
	EmailDLQ *int64 `json:"email_dlq,omitempty"`
}

func estado(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Health answers 503 when Postgres, Redis or the file store is unusable.
// SMTP breaker state and the email DLQ size are informative only.
func Health(s Sondas) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		redisErr := s.Redis.Ping(ctx).Err()
		resp := healthResponse{
			DB:      estado(err),
			Redis:   estado(redisErr),
			Storage: estado(s.Almacen.Escribible()),
			SMTP:    s.Mailer.Estado().String(),
		}
		resp.OK = resp.DB == "ok" && resp.Redis == "ok" && resp.Storage == "ok"

		if redisErr == nil {
			if n, err := worker.DLQLength(ctx, s.Redis, worker.QueueEmail); err == nil {
				resp.EmailDLQ = &n
			}
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
