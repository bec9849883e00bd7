package services

import (
	"errors"
	"fmt"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"gorm.io/gorm"
)

// ProfileUpdateRequest carries the submitted new field values for a
// profile edit plus the password proving the actor's identity.
type ProfileUpdateRequest struct {
	Username       string `json:"username" validate:"required,min=1,max=100"`
	Email          string `json:"email" validate:"required,email"`
	ImageURL       string `json:"image_url" validate:"omitempty,max=255"`
	HeaderImageURL string `json:"header_image_url" validate:"omitempty,max=255"`
	Bio            string `json:"bio" validate:"omitempty,max=500"`
	Location       string `json:"location" validate:"omitempty,max=100"`
	Password       string `json:"password" validate:"required"`
}

// FieldError names the single field a profile update collided on.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UpdateResult is the uniform outcome shape of a profile update.
// Denied marks a failed re-authentication, which callers render as a
// credential failure; every other unsuccessful result is a conflict.
type UpdateResult struct {
	Successful  bool        `json:"successful"`
	Denied      bool        `json:"-"`
	FieldErrors *FieldError `json:"field_errors,omitempty"`
	Message     string      `json:"message"`
}

// UserService handles business logic for user profiles.
type UserService struct {
	userRepo    repositories.UserRepository
	authService *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		authService: authService,
	}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// SearchUsers lists users whose username contains the query, or all
// users when the query is empty.
func (s *UserService) SearchUsers(query string) ([]models.User, error) {
	return s.userRepo.Search(query)
}

// UpdateProfile applies the submitted field values to the acting user's
// row after re-authenticating with the PRE-edit username and the
// submitted password. The password proves identity of the account as it
// exists now, independent of what the form renames it to.
//
// All string fields are trimmed; username and email are lowercased. A
// unique collision rolls back and yields a field-specific message naming
// the old and attempted new value. Re-authentication failure leaves the
// row untouched.
func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (UpdateResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return UpdateResult{}, err
	}

	// Values before any change, for the old-to-new messages below.
	oldUsername := user.Username
	oldEmail := user.Email

	if _, err := s.authService.Authenticate(oldUsername, req.Password); err != nil {
		return UpdateResult{
			Successful: false,
			Denied:     true,
			Message:    "DENIED! Password is incorrect. Your profile was NOT updated.",
		}, nil
	}

	user.Username = strings.ToLower(strings.TrimSpace(req.Username))
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.ImageURL = strings.TrimSpace(req.ImageURL)
	user.HeaderImageURL = strings.TrimSpace(req.HeaderImageURL)
	user.Bio = strings.TrimSpace(req.Bio)
	user.Location = strings.TrimSpace(req.Location)

	if err := s.userRepo.Update(user); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return UpdateResult{
				Successful: false,
				Message:    "An unexpected error occurred. Update(s) did NOT occur.",
			}, err
		}

		dupErr := resolveDuplicateKey(s.userRepo, userID, user.Username, user.Email, oldUsername, oldEmail)
		var dup *models.DuplicateKeyError
		if errors.As(dupErr, &dup) {
			label := titleCase(dup.Field)
			return UpdateResult{
				Successful: false,
				FieldErrors: &FieldError{
					Field:   dup.Field,
					Message: fmt.Sprintf("ERROR: %s '%s' already exists.", label, dup.NewValue),
				},
				Message: fmt.Sprintf("%s was NOT changed from '%s' to '%s'. %s '%s' already exists.",
					label, dup.OldValue, dup.NewValue, label, dup.NewValue),
			}, nil
		}

		return UpdateResult{
			Successful: false,
			Message:    "Username and/or email are not unique. Update did NOT occur.",
		}, nil
	}

	renamed := ""
	if user.Username != oldUsername {
		renamed = fmt.Sprintf(" (formerly '%s')", oldUsername)
	}
	return UpdateResult{
		Successful: true,
		Message:    fmt.Sprintf("'%s'%s was updated successfully.", user.Username, renamed),
	}, nil
}

// DeleteUser removes the user's account. Cascades take their messages,
// likes, and follow edges with it.
func (s *UserService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}

// titleCase capitalizes the first letter of a field name for the
// user-facing update messages.
func titleCase(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
