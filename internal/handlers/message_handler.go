package handlers

import (
	"warbler/internal/metrics"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// MessageHandler handles HTTP requests for warbles, likes, and the home
// feed.
type MessageHandler struct {
	messageService *services.MessageService
	likeService    *services.LikeService
	metrics        *metrics.Metrics
	logger         *logrus.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService, likeService *services.LikeService, m *metrics.Metrics, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		likeService:    likeService,
		metrics:        m,
		logger:         logger,
	}
}

// RegisterPublicRoutes registers showing a single warble, which needs
// no authentication.
func (h *MessageHandler) RegisterPublicRoutes(public fiber.Router) {
	public.Get("/messages/:id", h.HandleShowMessage)
}

// RegisterProtectedRoutes registers posting, deleting, and liking,
// which all act as the authenticated user.
func (h *MessageHandler) RegisterProtectedRoutes(protected fiber.Router) {
	protectedMessages := protected.Group("/messages")
	protectedMessages.Post("/", h.HandlePostMessage)
	protectedMessages.Post("/:id/delete", h.HandleDeleteMessage)
	protectedMessages.Post("/:id/like", h.HandleToggleLike)
}

// RegisterFeed registers the home feed on a router that resolves
// identity when present but admits anonymous callers.
func (h *MessageHandler) RegisterFeed(router fiber.Router) {
	router.Get("/feed", h.HandleHomeFeed)
}

// PostMessageRequest represents the request body for posting a warble.
type PostMessageRequest struct {
	Text string `json:"text"`
}

// HandlePostMessage posts a new warble for the acting user.
func (h *MessageHandler) HandlePostMessage(c *fiber.Ctx) error {
	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.BadRequests.WithLabelValues("post_message").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	actorID, _ := middleware.CurrentUserID(c)
	message, err := h.messageService.PostMessage(actorID, req.Text)
	if err != nil {
		h.metrics.BadRequests.WithLabelValues("post_message").Inc()
		return writeError(c, err)
	}

	h.metrics.WarblesPosted.WithLabelValues("post_message").Inc()
	h.metrics.SuccessfulRequests.WithLabelValues("post_message").Inc()
	h.logger.WithFields(logrus.Fields{"user_id": actorID, "message_id": message.ID}).Info("Warble posted")
	return c.Status(fiber.StatusCreated).JSON(message)
}

// HandleShowMessage shows a single warble with its author.
func (h *MessageHandler) HandleShowMessage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	message, err := h.messageService.GetMessage(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(message)
}

// HandleDeleteMessage deletes a warble. Only its owner may.
func (h *MessageHandler) HandleDeleteMessage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	actorID, _ := middleware.CurrentUserID(c)

	if err := h.messageService.DeleteMessage(actorID, id); err != nil {
		h.metrics.BadRequests.WithLabelValues("delete_message").Inc()
		return writeError(c, err)
	}

	h.metrics.SuccessfulRequests.WithLabelValues("delete_message").Inc()
	return c.JSON(fiber.Map{
		"message": "Warble deleted.",
	})
}

// HandleToggleLike flips the acting user's like on a warble and returns
// the resulting state.
func (h *MessageHandler) HandleToggleLike(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	actorID, _ := middleware.CurrentUserID(c)

	liked, err := h.likeService.ToggleLike(actorID, id)
	if err != nil {
		h.metrics.BadRequests.WithLabelValues("toggle_like").Inc()
		return writeError(c, err)
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	h.metrics.LikeToggles.WithLabelValues(state).Inc()
	return c.JSON(fiber.Map{
		"liked": liked,
	})
}

// HandleHomeFeed shows the 100 most recent warbles by users the viewer
// follows. Anonymous viewers get the empty no-feed state instead of a
// denial.
func (h *MessageHandler) HandleHomeFeed(c *fiber.Ctx) error {
	viewerID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(fiber.Map{
			"messages": []models.Message{},
		})
	}

	messages, err := h.messageService.HomeFeed(viewerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to assemble home feed")
		return writeError(c, err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return c.JSON(fiber.Map{
		"messages": messages,
	})
}
