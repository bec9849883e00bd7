package middleware

import (
	"strings"

	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"
)

// Locals keys the middleware sets for downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
)

// SessionUserKey is the session field holding the authenticated user's id.
const SessionUserKey = "user_id"

// AuthRequired resolves the caller's identity from the server-side
// session, falling back to a Bearer token for API clients, and rejects
// anonymous requests with a denial notice.
func AuthRequired(store *session.Store, authService *services.AuthService, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if resolveIdentity(c, store, authService) {
			return c.Next()
		}

		logger.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"ip":     c.IP(),
		}).Warn("Unauthenticated request to protected route")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Access unauthorized.",
		})
	}
}

// OptionalAuth resolves identity when present but never rejects; routes
// like the home feed render an anonymous state instead of denying.
func OptionalAuth(store *session.Store, authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolveIdentity(c, store, authService)
		return c.Next()
	}
}

// resolveIdentity sets the user_id/username locals from the session or
// a Bearer token and reports whether the caller is authenticated.
func resolveIdentity(c *fiber.Ctx, store *session.Store, authService *services.AuthService) bool {
	if sess, err := store.Get(c); err == nil {
		if id, ok := sessionUserID(sess.Get(SessionUserKey)); ok {
			c.Locals(LocalUserID, id)
			return true
		}
	}

	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return false
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return false
	}
	c.Locals(LocalUserID, uint(id))
	if username, ok := claims["username"].(string); ok {
		c.Locals(LocalUsername, username)
	}
	return true
}

// sessionUserID normalizes the session-stored id, which comes back as a
// concrete Go value from the memory store but as a decoded number from
// serializing stores.
func sessionUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	case float64:
		return uint(id), true
	default:
		return 0, false
	}
}

// CurrentUserID returns the authenticated user's id set by the auth
// middleware, or false for anonymous requests.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok
}
