package controllers

import (
	"context"
	"time"

	"tutortrack_go/database"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

// Health reports process, database and cache status.
func (hc *HealthController) Health(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	redisStatus := "ok"

	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
		status = "degraded"
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	} else {
		redisStatus = "disabled"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}
