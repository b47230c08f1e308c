package middleware

import (
	"log/slog"
	"time"

	"github.com/ezauction/ezauction/ezauction/logger"
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware logs every completed request; handler errors get their
// own entry with the caller's address attached.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.LogRequest(c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		if err != nil {
			logger.LogError("Request failed", err,
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("ip", utils.GetIPAddress(c)),
			)
		}

		return err
	}
}
