package models

import "time"

// Collection is a user-owned named bucket of saved posts.
type Collection struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:500" json:"description,omitempty"`
	ItemCount   int64      `gorm:"->;-:migration" json:"item_count"`
	Saves       []PostSave `gorm:"foreignKey:CollectionID" json:"saves,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostSave records that a user saved a post, optionally into a collection.
// At most one row exists per (post, user).
type PostSave struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"not null;uniqueIndex:idx_post_saves_post_user" json:"post_id"`
	Post         *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_post_saves_post_user;index" json:"user_id"`
	CollectionID *uint     `gorm:"index" json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
