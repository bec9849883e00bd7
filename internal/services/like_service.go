package services

import (
	"errors"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"gorm.io/gorm"
)

// LikeService handles business logic for likes.
type LikeService struct {
	likeRepo    repositories.LikeRepository
	messageRepo repositories.MessageRepository
}

// NewLikeService creates a new LikeService.
func NewLikeService(likeRepo repositories.LikeRepository, messageRepo repositories.MessageRepository) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
	}
}

// ToggleLike likes the message if the actor has not liked it, and
// unlikes it if they have. Returns the resulting state: true when the
// message is liked afterwards.
//
// Any authenticated user may like any message, including their own.
// The check-then-act pair races under concurrent identical requests;
// when a duplicate insert loses that race the pair-unique constraint
// rejects it and the message is treated as already liked.
func (s *LikeService) ToggleLike(actorID, messageID uint) (bool, error) {
	if _, err := s.messageRepo.GetByID(messageID); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Exists(actorID, messageID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likeRepo.Delete(actorID, messageID); err != nil {
			return true, err
		}
		return false, nil
	}

	like := &models.Like{UserID: actorID, MessageID: messageID}
	if err := s.likeRepo.Create(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil // concurrent like won the race
		}
		return false, err
	}
	return true, nil
}

// ListLikedMessageIDs lists the ids of messages the user has liked,
// ascending by message id.
func (s *LikeService) ListLikedMessageIDs(userID uint) ([]uint, error) {
	return s.likeRepo.MessageIDs(userID)
}

// UserLikedMessages lists the messages the user has liked, with author
// fields.
func (s *LikeService) UserLikedMessages(userID uint) ([]models.Message, error) {
	return s.likeRepo.LikedMessages(userID)
}
