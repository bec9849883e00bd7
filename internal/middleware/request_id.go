package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LocalRequestID is the locals key holding the request correlation id.
const LocalRequestID = "request_id"

// RequestID tags every request with a correlation id, echoes it in the
// X-Request-ID response header, and logs the request with it.
func RequestID(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(LocalRequestID, id)
		c.Set("X-Request-ID", id)

		logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Method(),
			"path":       c.Path(),
			"ip":         c.IP(),
		}).Info("Request received")

		return c.Next()
	}
}
