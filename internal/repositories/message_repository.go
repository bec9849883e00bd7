package repositories

import "warbler/internal/models"

// MessageRepository defines the interface for message data access.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Delete(id uint) error
	ByUser(userID uint, limit int) ([]models.Message, error)
	Feed(viewerID uint, limit int) ([]models.Message, error)
}
