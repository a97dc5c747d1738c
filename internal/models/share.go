package models

import "time"

// ShareItemType names what was shared.
type ShareItemType string

const (
	ShareItemPost     ShareItemType = "post"
	ShareItemCampaign ShareItemType = "campaign"
	ShareItemMatch    ShareItemType = "match"
)

// Valid reports whether t is a known share item type.
func (t ShareItemType) Valid() bool {
	return t == ShareItemPost || t == ShareItemCampaign || t == ShareItemMatch
}

// ShareType names the channel a share went out on.
type ShareType string

const (
	ShareFeed     ShareType = "feed"
	ShareMessage  ShareType = "message"
	ShareLink     ShareType = "link"
	ShareTwitter  ShareType = "twitter"
	ShareLinkedIn ShareType = "linkedin"
	ShareFacebook ShareType = "facebook"
)

// ShareTypes lists every share channel.
var ShareTypes = []ShareType{ShareFeed, ShareMessage, ShareLink, ShareTwitter, ShareLinkedIn, ShareFacebook}

// Valid reports whether s is a known share channel.
func (s ShareType) Valid() bool {
	for _, t := range ShareTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Share is an append-only log entry. Share counts are always computed from
// these rows.
type Share struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID" json:"user"`
	ItemType  ShareItemType `gorm:"type:varchar(16);not null;index:idx_shares_item" json:"item_type"`
	ItemID    uint          `gorm:"not null;index:idx_shares_item" json:"item_id"`
	ShareType ShareType     `gorm:"type:varchar(16);not null" json:"share_type"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sharer is one entry of an item's recent sharers list.
type Sharer struct {
	UserID    uint      `json:"user_id"`
	Handle    string    `json:"handle"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	ShareType ShareType `json:"share_type"`
	SharedAt  time.Time `json:"shared_at"`
}
