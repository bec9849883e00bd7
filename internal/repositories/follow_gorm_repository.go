package repositories

import (
	"fmt"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{
		db: db,
	}
}

// Create inserts a follow edge. Inserting an edge that already exists
// hits the composite primary key and surfaces as gorm.ErrDuplicatedKey
// through the wrapped error.
func (r *GORMFollowRepository) Create(follow *models.Follow) error {
	if err := r.db.Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}
	return nil
}

// Delete removes a follow edge. Deleting an edge that is not there is a
// no-op, not an error.
func (r *GORMFollowRepository) Delete(followerID, followedID uint) error {
	err := r.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	return nil
}

// Exists reports whether followerID follows followedID.
func (r *GORMFollowRepository) Exists(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// Following lists the users that userID follows.
func (r *GORMFollowRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following for user %d: %w", userID, err)
	}
	return users, nil
}

// Followers lists the users that follow userID.
func (r *GORMFollowRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get followers for user %d: %w", userID, err)
	}
	return users, nil
}
