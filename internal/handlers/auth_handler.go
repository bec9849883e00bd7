package handlers

import (
	"errors"
	"fmt"
	"strings"

	"warbler/internal/metrics"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for signup, login, and logout.
type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
	validate    *validator.Validate
	metrics     *metrics.Metrics
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, store *session.Store, m *metrics.Metrics, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		validate:    validator.New(),
		metrics:     m,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup handles new user registration. On success the caller is
// logged in: the session is bound to the new user and a bearer token is
// returned for API clients.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.BadRequests.WithLabelValues("signup").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.BadRequests.WithLabelValues("signup").Inc()
		return writeValidationErrors(c, err)
	}

	user, err := h.authService.Signup(req)
	if err != nil {
		h.metrics.BadRequests.WithLabelValues("signup").Inc()
		var dup *models.DuplicateKeyError
		if errors.As(err, &dup) {
			h.logger.WithField("field", dup.Field).Warn("Signup hit duplicate key")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("%s already taken", titleField(dup.Field)),
				"field":   dup.Field,
			})
		}
		h.logger.WithError(err).Error("Signup failed")
		return writeError(c, err)
	}

	if err := h.createSession(c, user.ID); err != nil {
		h.logger.WithError(err).Error("Failed to create session after signup")
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token after signup")
		return writeError(c, err)
	}

	h.metrics.SuccessfulRequests.WithLabelValues("signup").Inc()
	h.logger.WithField("username", user.Username).Info("User registered successfully")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// HandleLogin authenticates the caller, binds the session to them, and
// returns a bearer token. Unknown username and wrong password produce
// the same generic response.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.BadRequests.WithLabelValues("login").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.BadRequests.WithLabelValues("login").Inc()
		return writeValidationErrors(c, err)
	}

	user, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		h.metrics.BadRequests.WithLabelValues("login").Inc()
		h.logger.WithField("username", req.Username).Warn("Invalid login attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials.",
		})
	}

	if err := h.createSession(c, user.ID); err != nil {
		h.logger.WithError(err).Error("Failed to create session after login")
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token after login")
		return writeError(c, err)
	}

	h.metrics.SuccessfulRequests.WithLabelValues("login").Inc()
	h.logger.WithField("username", user.Username).Info("User logged in successfully")
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Hello, %s!", user.Username),
		"user":    user,
		"token":   token,
	})
}

// HandleLogout clears the session identity.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if destroyErr := sess.Destroy(); destroyErr != nil {
			h.logger.WithError(destroyErr).Error("Failed to destroy session")
		}
	}

	h.metrics.SuccessfulRequests.WithLabelValues("logout").Inc()
	return c.JSON(fiber.Map{
		"message": "Successfully logged out.",
	})
}

// createSession binds the server-side session to the given user id.
func (h *AuthHandler) createSession(c *fiber.Ctx, userID uint) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, userID)
	return sess.Save()
}

// titleField capitalizes a field name for user-facing messages.
func titleField(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
