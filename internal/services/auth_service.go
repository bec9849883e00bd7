package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupRequest carries the fields a new user submits.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	ImageURL string `json:"image_url" validate:"omitempty,max=255"`
}

// AuthService handles signup, authentication, and API tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a bearer token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// Signup creates a new user. Username and email are trimmed and
// lowercased before insert, the password is bcrypt-hashed, and a blank
// image URL gets the default. A unique violation comes back as a
// *models.DuplicateKeyError naming the colliding field; no row is
// created in that case.
func (s *AuthService) Signup(req SignupRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       strings.ToLower(strings.TrimSpace(req.Username)),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Password:       string(hashedPassword),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, resolveDuplicateKey(s.userRepo, 0, user.Username, user.Email, "", "")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate finds the user with the given username and verifies the
// password against the stored hash. An unknown username and a wrong
// password both return models.ErrAuthFailure so the caller cannot tell
// them apart.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, models.ErrAuthFailure
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrAuthFailure
	}
	return user, nil
}

// GenerateToken issues a signed bearer token for API clients.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a bearer token, returning the
// claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// resolveDuplicateKey turns a unique violation into a field-specific
// DuplicateKeyError by probing which of the two unique columns already
// holds the attempted value. This avoids sniffing driver error text.
// The failed write has already rolled back when this runs, so during a
// profile update the actor's own row still holds its old values; selfID
// excludes it so an unchanged field is never reported as the collision.
func resolveDuplicateKey(repo repositories.UserRepository, selfID uint, username, email, oldUsername, oldEmail string) error {
	if existing, err := repo.GetByUsername(username); err == nil && existing != nil && existing.ID != selfID {
		return &models.DuplicateKeyError{Field: "username", OldValue: oldUsername, NewValue: username}
	}
	if existing, err := repo.GetByEmail(email); err == nil && existing != nil && existing.ID != selfID {
		return &models.DuplicateKeyError{Field: "email", OldValue: oldEmail, NewValue: email}
	}
	return models.ErrNotUnique
}
