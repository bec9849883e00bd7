package models

// Follow is a directed edge: FollowerID follows FollowedID.
// The composite primary key makes a second identical insert a unique
// violation, which the follow service treats as a no-op.
type Follow struct {
	FollowerID uint `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
}
