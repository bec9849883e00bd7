package models

// Default profile images applied when signup leaves them blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a user of Warbler.
// Username and email are stored lowercase so uniqueness is case-insensitive.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;not null;type:varchar(100)" validate:"required,min=1,max=100"`
	Email          string `json:"email" gorm:"uniqueIndex;not null;type:varchar(255)" validate:"required,email"`
	Password       string `json:"-" gorm:"not null;type:varchar(255)"` // bcrypt hash, never the plaintext
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`

	// Deleting a user removes their messages, their likes, and every
	// follow edge they appear on, in either direction.
	Messages  []Message `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes     []Like    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Following []Follow  `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followers []Follow  `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}
