package models

import "time"

// Like records a user's endorsement of a message.
// The combination of UserID and MessageID must be unique: at most one
// like per (user, message) pair. Uniqueness is deliberately on the pair,
// not on the message column alone, so different users can like the same
// message.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_message"`
	MessageID uint      `json:"message_id" gorm:"not null;uniqueIndex:idx_like_user_message"`
	CreatedAt time.Time `json:"created_at"`
}
