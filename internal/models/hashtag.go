package models

import "time"

// Hashtag is identified by its lowercased form; Name keeps the casing of the
// first occurrence.
type Hashtag struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	NormalizedName string    `gorm:"size:255;uniqueIndex;not null" json:"normalized_name"`
	UsageCount     int       `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PostHashtag links one hashtag occurrence to a post. Positions are
// character offsets into the content at creation time, end exclusive.
type PostHashtag struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;index" json:"post_id"`
	Post          *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	HashtagID     uint      `gorm:"not null;index" json:"hashtag_id"`
	Hashtag       *Hashtag  `gorm:"foreignKey:HashtagID" json:"hashtag,omitempty"`
	PositionStart int       `gorm:"not null" json:"position_start"`
	PositionEnd   int       `gorm:"not null" json:"position_end"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
