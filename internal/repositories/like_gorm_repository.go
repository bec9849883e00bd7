package repositories

import (
	"fmt"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// Create inserts a like. A duplicate (user, message) pair hits the
// unique index and surfaces as gorm.ErrDuplicatedKey through the
// wrapped error.
func (r *GORMLikeRepository) Create(like *models.Like) error {
	if err := r.db.Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes the like for a (user, message) pair. An absent pair is
// a no-op.
func (r *GORMLikeRepository) Delete(userID, messageID uint) error {
	err := r.db.
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// Exists reports whether userID has liked messageID.
func (r *GORMLikeRepository) Exists(userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

// MessageIDs lists the ids of messages the user has liked, ascending.
func (r *GORMLikeRepository) MessageIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("message_id ASC").
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get liked message ids for user %d: %w", userID, err)
	}
	return ids, nil
}

// LikedMessages lists the messages the user has liked, with author
// fields preloaded.
func (r *GORMLikeRepository) LikedMessages(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Where("id IN (SELECT message_id FROM likes WHERE user_id = ?)", userID).
		Order("timestamp DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get liked messages for user %d: %w", userID, err)
	}
	return messages, nil
}
