package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tutortrack_go/config"
	"tutortrack_go/database"
	"tutortrack_go/models"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records one audited action. Entries go to Redis first for
// throughput, with a direct database save as fallback when Redis is down.
func LogActivity(c *fiber.Ctx, action, resource, resourceID string) {
	user, err := GetCurrentUser(c)
	if err != nil {
		// Unauthenticated actions (e.g. QR scans) are logged as system actions.
		user = &models.User{}
	}

	activityLog := models.ActivityLog{
		UserID:     user.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
		RequestID:  c.Get("X-Request-ID", uuid.NewString()),
	}

	go func(al models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in LogActivity goroutine")
			}
		}()

		if config.AppConfig.UseRedisActivityLog {
			if err := cacheActivityLog(al); err == nil {
				return
			}
			logrus.Warn("Failed to cache activity log, saving directly to database")
		}
		if database.DB == nil {
			logrus.Error("database.DB is nil; cannot save activity log")
			return
		}
		if dbErr := database.DB.Create(&al).Error; dbErr != nil {
			logrus.WithError(dbErr).Error("Failed to save activity log to database")
		}
	}(activityLog)
}

// cacheActivityLog stores an activity log in Redis with a 24-hour TTL and queues
// it for batch flushing.
func cacheActivityLog(log models.ActivityLog) error {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	logData, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %v", err)
	}

	cacheKey := fmt.Sprintf("log:%d:%s:%d", log.UserID, log.Action, time.Now().UnixNano())
	if err := redisClient.Set(ctx, cacheKey, logData, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to cache log: %v", err)
	}

	if err := redisClient.ZAdd(ctx, "logs:queue", &redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: cacheKey,
	}).Err(); err != nil {
		logrus.WithError(err).Error("Failed to add log to processing queue")
	}
	return nil
}

// FlushCachedLogs drains the Redis log queue into the database. Safe to call on
// an interval or on demand; entries that fail to decode are dropped.
func FlushCachedLogs() (int, error) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	keys, err := redisClient.ZRange(ctx, "logs:queue", 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read log queue: %v", err)
	}

	flushed := 0
	for _, key := range keys {
		raw, err := redisClient.Get(ctx, key).Result()
		if err != nil {
			redisClient.ZRem(ctx, "logs:queue", key)
			continue
		}
		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			logrus.WithError(err).Warn("Dropping undecodable cached activity log")
			redisClient.ZRem(ctx, "logs:queue", key)
			redisClient.Del(ctx, key)
			continue
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			return flushed, fmt.Errorf("failed to persist cached log: %v", err)
		}
		redisClient.ZRem(ctx, "logs:queue", key)
		redisClient.Del(ctx, key)
		flushed++
	}
	return flushed, nil
}

// LogActivityMiddleware automatically logs mutating requests.
func LogActivityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for GET requests and auth endpoints
		if c.Method() == "GET" || strings.Contains(c.Path(), "/auth/") {
			return c.Next()
		}

		err := c.Next()

		var action string
		switch c.Method() {
		case "POST":
			action = "CREATE"
		case "PUT", "PATCH":
			action = "UPDATE"
		case "DELETE":
			action = "DELETE"
		default:
			return err
		}

		pathParts := strings.Split(strings.Trim(c.Path(), "/"), "/")
		var resource string
		if len(pathParts) >= 2 {
			resource = pathParts[1] // assumes /api/resource format
		}

		if c.Response().StatusCode() < 400 {
			LogActivity(c, action, resource, c.Params("id"))
		}

		return err
	}
}
