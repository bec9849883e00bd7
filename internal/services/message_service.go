package services

import (
	"log"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repositories"
	"warbler/pkg/rabbitmq"
)

// FeedLimit caps how many messages the home feed and a profile page show.
const FeedLimit = 100

// MessageService handles business logic for warbles.
type MessageService struct {
	messageRepo repositories.MessageRepository
	mqClient    *rabbitmq.Client
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repositories.MessageRepository, mqClient *rabbitmq.Client) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		mqClient:    mqClient,
	}
}

// PostMessage creates a new warble for the user. The text is required
// and bounded at 140 characters after trimming.
func (s *MessageService) PostMessage(userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &models.ValidationError{Field: "text", Message: "text is required"}
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return nil, &models.ValidationError{Field: "text", Message: "text must be at most 140 characters"}
	}

	message := &models.Message{
		Text:   text,
		UserID: userID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		event := map[string]interface{}{
			"message_id": message.ID,
			"user_id":    message.UserID,
		}
		if err := s.mqClient.PublishEvent("warble.posted", event); err != nil {
			log.Printf("Warning: failed to publish warble.posted event for message %d: %v", message.ID, err)
		}
	}
	return message, nil
}

// GetMessage retrieves a single warble with its author.
func (s *MessageService) GetMessage(id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(id)
}

// DeleteMessage removes a warble. Only its owner may delete it; likes
// on it cascade away.
func (s *MessageService) DeleteMessage(actorID, messageID uint) error {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID != actorID {
		return models.ErrAuthorizationDenied
	}
	return s.messageRepo.Delete(messageID)
}

// HomeFeed lists the most recent warbles authored by users the viewer
// follows, newest first, capped at FeedLimit. A viewer following nobody
// gets an empty feed; their own warbles are not included.
func (s *MessageService) HomeFeed(viewerID uint) ([]models.Message, error) {
	return s.messageRepo.Feed(viewerID, FeedLimit)
}

// UserMessages lists one user's warbles with author fields, newest
// first, capped at FeedLimit.
func (s *MessageService) UserMessages(userID uint) ([]models.Message, error) {
	return s.messageRepo.ByUser(userID, FeedLimit)
}
