package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	redis   *goredis.Client
	timeout time.Duration
}

func NewHealthHandler(db *gorm.DB, redis *goredis.Client) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		timeout: 5 * time.Second,
	}
}

// Healthz pings postgres and redis and reports per-dependency state. Any
// failing dependency turns the response into 503.
func (h *HealthHandler) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, checks)
}
