package repositories

import "warbler/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Search(query string) ([]models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}
