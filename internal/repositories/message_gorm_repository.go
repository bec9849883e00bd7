package repositories

import (
	"fmt"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create inserts a new message.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message with its author preloaded.
func (r *GORMMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("message %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message by ID %d: %w", id, err)
	}
	return &message, nil
}

// Delete removes a message by ID. Likes on it cascade away.
func (r *GORMMessageRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Message{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %d for deletion: %w", id, models.ErrNotFound)
	}
	return nil
}

// ByUser lists one user's messages with author fields, newest first.
func (r *GORMMessageRepository) ByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for user %d: %w", userID, err)
	}
	return messages, nil
}

// Feed lists the most recent messages authored by users the viewer
// follows, newest first. The viewer's own messages are not included
// unless the viewer follows themselves.
func (r *GORMMessageRepository) Feed(viewerID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Where("user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)", viewerID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed for user %d: %w", viewerID, err)
	}
	return messages, nil
}
