package models

import "time"

// Mention records a resolved @handle inside a post.
type Mention struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;index" json:"post_id"`
	Post            *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	MentionedUserID uint      `gorm:"not null;index" json:"mentioned_user_id"`
	MentionedUser   *User     `gorm:"foreignKey:MentionedUserID" json:"mentioned_user,omitempty"`
	MentionerUserID uint      `gorm:"not null" json:"mentioner_user_id"`
	Mentioner       *User     `gorm:"foreignKey:MentionerUserID" json:"mentioner,omitempty"`
	PositionStart   int       `gorm:"not null" json:"position_start"`
	PositionEnd     int       `gorm:"not null" json:"position_end"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}
