package models

import "time"

// ReactionType is the emotion attached to a reaction.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionWow   ReactionType = "wow"
	ReactionHaha  ReactionType = "haha"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every reaction type in display order.
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionWow, ReactionHaha, ReactionSad, ReactionAngry}

// Valid reports whether r is a known reaction type.
func (r ReactionType) Valid() bool {
	for _, t := range ReactionTypes {
		if t == r {
			return true
		}
	}
	return false
}

// TargetType names the kind of entity a reaction points at.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
	TargetMatch   TargetType = "match"
)

// Reaction is unique per (user, target); changing the emotion updates the
// existing row in place.
type Reaction struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_reactions_user_target" json:"user_id"`
	User         User         `gorm:"foreignKey:UserID" json:"user"`
	TargetType   TargetType   `gorm:"type:varchar(16);not null;uniqueIndex:idx_reactions_user_target;index:idx_reactions_target" json:"target_type"`
	TargetID     uint         `gorm:"not null;uniqueIndex:idx_reactions_user_target;index:idx_reactions_target" json:"target_id"`
	ReactionType ReactionType `gorm:"type:varchar(16);not null" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Reactor is one entry of a post's recent reactors list.
type Reactor struct {
	UserID       uint         `json:"user_id"`
	Handle       string       `json:"handle"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	ReactionType ReactionType `json:"reaction_type"`
	ReactedAt    time.Time    `json:"reacted_at"`
}

// ReactionSummary aggregates the reactions on a post.
type ReactionSummary struct {
	Total          int64                  `json:"total"`
	ByType         map[ReactionType]int64 `json:"by_type"`
	RecentReactors []Reactor              `json:"recent_reactors"`
}
