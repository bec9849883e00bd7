package models

import "time"

// MaxMessageLength bounds the text of a single warble.
const MaxMessageLength = 140

// Message is an individual warble: a short text post owned by one user.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:varchar(140);not null" validate:"required,max=140"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;autoCreateTime"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"author" gorm:"foreignKey:UserID"`

	// Likes on a message disappear with it.
	Likes []Like `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}
