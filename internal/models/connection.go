package models

import "time"

// ConnectionStatus represents the state of a connection request.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a request awaiting a response.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates both users are connected.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusRejected indicates the recipient declined.
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// Connection links two users. Accepted connections are symmetric regardless
// of who sent the request.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
