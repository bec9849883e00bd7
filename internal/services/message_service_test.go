package services_test

import (
	"strings"
	"testing"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository is a mock implementation of repositories.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(id uint) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMessageRepository) ByUser(userID uint, limit int) ([]models.Message, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) Feed(viewerID uint, limit int) ([]models.Message, error) {
	args := m.Called(viewerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func TestMessageService_PostMessage(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	messageService := services.NewMessageService(mockRepo, nil)

	var created *models.Message
	mockRepo.On("Create", mock.AnythingOfType("*models.Message")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Message)
	}).Return(nil).Once()

	message, err := messageService.PostMessage(1, "  first warble  ")
	assert.NoError(t, err)
	assert.NotNil(t, message)
	assert.Equal(t, "first warble", created.Text)
	assert.Equal(t, uint(1), created.UserID)
	mockRepo.AssertExpectations(t)
}

func TestMessageService_PostMessageValidation(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	messageService := services.NewMessageService(mockRepo, nil)

	var validation *models.ValidationError

	_, err := messageService.PostMessage(1, "   ")
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, "text", validation.Field)

	// Exactly 140 characters passes; 141 does not.
	mockRepo.On("Create", mock.AnythingOfType("*models.Message")).Return(nil).Once()
	_, err = messageService.PostMessage(1, strings.Repeat("a", 140))
	assert.NoError(t, err)

	_, err = messageService.PostMessage(1, strings.Repeat("a", 141))
	assert.ErrorAs(t, err, &validation)

	mockRepo.AssertExpectations(t)
}

func TestMessageService_DeleteMessageOwnership(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	messageService := services.NewMessageService(mockRepo, nil)

	message := &models.Message{ID: 5, UserID: 1, Text: "mine"}

	// A non-owner is denied and nothing is deleted.
	mockRepo.On("GetByID", uint(5)).Return(message, nil).Once()
	err := messageService.DeleteMessage(2, 5)
	assert.ErrorIs(t, err, models.ErrAuthorizationDenied)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)

	// The owner may delete.
	mockRepo.On("GetByID", uint(5)).Return(message, nil).Once()
	mockRepo.On("Delete", uint(5)).Return(nil).Once()
	err = messageService.DeleteMessage(1, 5)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestMessageService_FeedUsesLimit(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	messageService := services.NewMessageService(mockRepo, nil)

	mockRepo.On("Feed", uint(1), services.FeedLimit).Return([]models.Message{}, nil).Once()
	_, err := messageService.HomeFeed(1)
	assert.NoError(t, err)

	mockRepo.On("ByUser", uint(1), services.FeedLimit).Return([]models.Message{}, nil).Once()
	_, err = messageService.UserMessages(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
