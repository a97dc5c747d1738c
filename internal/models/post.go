package models

import "time"

// PostType classifies a feed post.
type PostType string

const (
	PostTypeUpdate               PostType = "update"
	PostTypeCollaborationStory   PostType = "collaboration_story"
	PostTypeCampaignAnnouncement PostType = "campaign_announcement"
	PostTypePortfolio            PostType = "portfolio"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeUpdate, PostTypeCollaborationStory, PostTypeCampaignAnnouncement, PostTypePortfolio:
		return true
	}
	return false
}

// Post is a feed entry. LikeCount and CommentCount are denormalized and only
// ever change through relative updates issued next to the row that
// justifies them.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	PostType     PostType  `gorm:"type:varchar(32);not null;default:'update';index" json:"post_type"`
	MediaURLs    []string  `gorm:"serializer:json;type:text" json:"media_urls"`
	LikeCount    int       `gorm:"not null;default:0" json:"like_count"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
