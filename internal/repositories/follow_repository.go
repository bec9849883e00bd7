package repositories

import "warbler/internal/models"

// FollowRepository defines the interface for follow-edge data access.
type FollowRepository interface {
	Create(follow *models.Follow) error
	Delete(followerID, followedID uint) error
	Exists(followerID, followedID uint) (bool, error)
	Following(userID uint) ([]models.User, error)
	Followers(userID uint) ([]models.User, error)
}
