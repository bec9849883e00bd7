package services

import (
	"errors"
	"log"

	"warbler/internal/models"
	"warbler/internal/repositories"
	"warbler/pkg/rabbitmq"

	"gorm.io/gorm"
)

// FollowService handles business logic for the follow graph.
type FollowService struct {
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
	mqClient   *rabbitmq.Client
}

// NewFollowService creates a new FollowService.
func NewFollowService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		mqClient:   mqClient,
	}
}

// Follow inserts a follow edge from actor to target. Following a user
// who is already followed is an idempotent no-op: the duplicate insert
// hits the composite primary key and is swallowed here. Following
// yourself is rejected.
func (s *FollowService) Follow(actorID, targetID uint) error {
	if actorID == targetID {
		return models.ErrSelfFollow
	}
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		return err
	}

	edge := &models.Follow{FollowerID: actorID, FollowedID: targetID}
	if err := s.followRepo.Create(edge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // already following
		}
		return err
	}

	if s.mqClient != nil {
		event := map[string]interface{}{
			"follower_id": actorID,
			"followed_id": targetID,
		}
		if err := s.mqClient.PublishEvent("user.followed", event); err != nil {
			log.Printf("Warning: failed to publish user.followed event: %v", err)
		}
	}
	return nil
}

// Unfollow removes the edge from actor to target if present. An absent
// edge is a no-op.
func (s *FollowService) Unfollow(actorID, targetID uint) error {
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		return err
	}
	return s.followRepo.Delete(actorID, targetID)
}

// IsFollowing reports whether a follows b.
func (s *FollowService) IsFollowing(a, b uint) (bool, error) {
	return s.followRepo.Exists(a, b)
}

// IsFollowedBy reports whether a is followed by b.
func (s *FollowService) IsFollowedBy(a, b uint) (bool, error) {
	return s.followRepo.Exists(b, a)
}

// Following lists the users that userID follows.
func (s *FollowService) Following(userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(userID)
}

// Followers lists the users that follow userID.
func (s *FollowService) Followers(userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(userID)
}
