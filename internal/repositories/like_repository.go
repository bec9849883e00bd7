package repositories

import "warbler/internal/models"

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	Create(like *models.Like) error
	Delete(userID, messageID uint) error
	Exists(userID, messageID uint) (bool, error)
	MessageIDs(userID uint) ([]uint, error)
	LikedMessages(userID uint) ([]models.Message, error)
}
