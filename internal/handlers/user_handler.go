package handlers

import (
	"warbler/internal/metrics"
	"warbler/internal/middleware"
	"warbler/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for user profiles and the follow
// graph.
type UserHandler struct {
	userService    *services.UserService
	followService  *services.FollowService
	messageService *services.MessageService
	likeService    *services.LikeService
	store          *session.Store
	validate       *validator.Validate
	metrics        *metrics.Metrics
	logger         *logrus.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	userService *services.UserService,
	followService *services.FollowService,
	messageService *services.MessageService,
	likeService *services.LikeService,
	store *session.Store,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *UserHandler {
	return &UserHandler{
		userService:    userService,
		followService:  followService,
		messageService: messageService,
		likeService:    likeService,
		store:          store,
		validate:       validator.New(),
		metrics:        m,
		logger:         logger,
	}
}

// RegisterPublicRoutes registers the reads of public profile data.
// These must be registered before any AuthRequired middleware is
// mounted on the same prefix, or the middleware intercepts them.
func (h *UserHandler) RegisterPublicRoutes(public fiber.Router) {
	publicUsers := public.Group("/users")
	publicUsers.Get("/", h.HandleListUsers)
	publicUsers.Get("/:id", h.HandleShowUser)
	publicUsers.Get("/:id/messages", h.HandleUserMessages)
}

// RegisterProtectedRoutes registers everything that mutates state or
// reveals a user's private action lists.
func (h *UserHandler) RegisterProtectedRoutes(protected fiber.Router) {
	protectedUsers := protected.Group("/users")
	protectedUsers.Get("/:id/following", h.HandleFollowing)
	protectedUsers.Get("/:id/followers", h.HandleFollowers)
	protectedUsers.Get("/:id/likes", h.HandleUserLikes)
	protectedUsers.Post("/follow/:id", h.HandleFollow)
	protectedUsers.Post("/stop-following/:id", h.HandleUnfollow)
	protectedUsers.Post("/profile", h.HandleUpdateProfile)
	protectedUsers.Post("/delete", h.HandleDeleteAccount)
}

// HandleListUsers lists users, optionally filtered by a 'q' username
// search parameter.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(c.Query("q"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		return writeError(c, err)
	}
	return c.JSON(users)
}

// HandleShowUser shows one user's public profile.
func (h *UserHandler) HandleShowUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// HandleUserMessages lists one user's warbles, newest first.
func (h *UserHandler) HandleUserMessages(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.userService.GetUser(id); err != nil {
		return writeError(c, err)
	}

	messages, err := h.messageService.UserMessages(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list user messages")
		return writeError(c, err)
	}
	return c.JSON(messages)
}

// HandleFollowing lists the users this user is following.
func (h *UserHandler) HandleFollowing(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	users, err := h.followService.Following(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

// HandleFollowers lists this user's followers.
func (h *UserHandler) HandleFollowers(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	users, err := h.followService.Followers(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

// HandleUserLikes lists the messages a user has liked. Only the user
// themselves may view their likes list.
func (h *UserHandler) HandleUserLikes(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	viewerID, _ := middleware.CurrentUserID(c)
	if viewerID != id {
		h.metrics.BadRequests.WithLabelValues("user_likes").Inc()
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access unauthorized.",
		})
	}

	messages, err := h.likeService.UserLikedMessages(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list liked messages")
		return writeError(c, err)
	}
	return c.JSON(messages)
}

// HandleFollow makes the acting user follow the target user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	targetID, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	actorID, _ := middleware.CurrentUserID(c)

	if err := h.followService.Follow(actorID, targetID); err != nil {
		h.metrics.BadRequests.WithLabelValues("follow").Inc()
		return writeError(c, err)
	}

	h.metrics.FollowRequests.WithLabelValues("follow").Inc()
	h.logger.WithFields(logrus.Fields{"actor": actorID, "target": targetID}).Info("User followed")
	return c.JSON(fiber.Map{
		"message": "Followed.",
	})
}

// HandleUnfollow makes the acting user stop following the target user.
func (h *UserHandler) HandleUnfollow(c *fiber.Ctx) error {
	targetID, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	actorID, _ := middleware.CurrentUserID(c)

	if err := h.followService.Unfollow(actorID, targetID); err != nil {
		h.metrics.BadRequests.WithLabelValues("unfollow").Inc()
		return writeError(c, err)
	}

	h.metrics.UnfollowRequests.WithLabelValues("unfollow").Inc()
	return c.JSON(fiber.Map{
		"message": "Unfollowed.",
	})
}

// HandleUpdateProfile applies a re-authentication-gated profile edit
// and returns the uniform update result.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.BadRequests.WithLabelValues("profile").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.BadRequests.WithLabelValues("profile").Inc()
		return writeValidationErrors(c, err)
	}

	actorID, _ := middleware.CurrentUserID(c)
	result, err := h.userService.UpdateProfile(actorID, req)
	if err != nil {
		h.logger.WithError(err).Error("Profile update failed unexpectedly")
		if result.Message == "" {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	if !result.Successful {
		h.metrics.BadRequests.WithLabelValues("profile").Inc()
		if result.Denied {
			return c.Status(fiber.StatusUnauthorized).JSON(result)
		}
		// Field-specific collisions and the generic not-unique
		// fallback are both conflicts.
		return c.Status(fiber.StatusConflict).JSON(result)
	}

	h.metrics.SuccessfulRequests.WithLabelValues("profile").Inc()
	return c.JSON(result)
}

// HandleDeleteAccount deletes the acting user's account and clears the
// session. Cascades remove their messages, likes, and follow edges.
// The delete runs before the session is destroyed: a failed delete must
// not log the caller out of an account that still exists.
func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	actorID, _ := middleware.CurrentUserID(c)

	if err := h.userService.DeleteUser(actorID); err != nil {
		h.logger.WithError(err).Error("Failed to delete account")
		return writeError(c, err)
	}

	if sess, err := h.store.Get(c); err == nil {
		if destroyErr := sess.Destroy(); destroyErr != nil {
			h.logger.WithError(destroyErr).Error("Failed to destroy session on account delete")
		}
	}

	h.metrics.SuccessfulRequests.WithLabelValues("delete_account").Inc()
	h.logger.WithField("user_id", actorID).Info("Account deleted")
	return c.JSON(fiber.Map{
		"message": "Account deleted.",
	})
}
