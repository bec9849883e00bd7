package services_test

import (
	"fmt"
	"testing"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Search(query string) ([]models.User, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, models.ErrNotFound)
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	var created *models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.User)
	}).Return(nil).Once()

	user, err := authService.Signup(services.SignupRequest{
		Username: "  NewUser  ",
		Email:    "New@Example.COM",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotNil(t, user)
	mockRepo.AssertExpectations(t)

	// Username and email are trimmed and lowercased before insert.
	assert.Equal(t, "newuser", created.Username)
	assert.Equal(t, "new@example.com", created.Email)

	// The stored password is a verifiable bcrypt hash, not the plaintext.
	assert.NotEqual(t, "password123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))

	// Blank image URL gets the default; the header image always does.
	assert.Equal(t, models.DefaultImageURL, created.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, created.HeaderImageURL)
}

func TestAuthService_SignupDuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	existing := &models.User{ID: 7, Username: "taken", Email: "taken@example.com"}

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey)).Once()
	mockRepo.On("GetByUsername", "taken").Return(existing, nil).Once()

	_, err := authService.Signup(services.SignupRequest{
		Username: "Taken",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.Error(t, err)

	var dup *models.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
	assert.Equal(t, "taken", dup.NewValue)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	existing := &models.User{ID: 7, Username: "other", Email: "taken@example.com"}

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey)).Once()
	mockRepo.On("GetByUsername", "fresh").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil).Once()

	_, err := authService.Signup(services.SignupRequest{
		Username: "fresh",
		Email:    "Taken@Example.com",
		Password: "password123",
	})

	var dup *models.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Correct credentials return the user; lookup is lowercased.
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	got, err := authService.Authenticate("TestUser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Wrong password and unknown username produce the identical error,
	// so callers cannot enumerate usernames.
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, wrongPassErr := authService.Authenticate("testuser", "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, models.ErrAuthFailure)

	mockRepo.On("GetByUsername", "ghost").Return(nil, notFoundErr("user")).Once()
	_, noUserErr := authService.Authenticate("ghost", "password123")
	assert.ErrorIs(t, noUserErr, models.ErrAuthFailure)

	assert.Equal(t, wrongPassErr, noUserErr)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: 42, Username: "tokenuser"}
	token, err := authService.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "tokenuser", claims["username"])

	_, err = authService.ValidateToken("not.a.token")
	assert.Error(t, err)
}
