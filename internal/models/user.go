// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// UserRole distinguishes the two sides of the marketplace.
type UserRole string

const (
	RoleInfluencer UserRole = "INFLUENCER"
	RoleCompany    UserRole = "COMPANY"
	RoleAdmin      UserRole = "ADMIN"
)

// User is owned by the identity service; the feed only reads it.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"-"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Role        UserRole  `gorm:"type:varchar(20);not null;default:'INFLUENCER'" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Handle returns the local part of the user's email, which is what
// @mentions are matched against.
func (u User) Handle() string {
	if i := strings.IndexByte(u.Email, '@'); i >= 0 {
		return u.Email[:i]
	}
	return u.Email
}

// UserSummary is the public projection of a user embedded in feed payloads.
type UserSummary struct {
	ID          uint     `json:"id"`
	Handle      string   `json:"handle"`
	DisplayName string   `json:"display_name,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Role        UserRole `json:"role"`
}

// Summary strips the sensitive fields off u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Handle:      u.Handle(),
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
	}
}
