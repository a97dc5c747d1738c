// Package notifications publishes feed events onto Redis channels for the
// real-time delivery service to fan out.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types carried in the "type" field of a payload.
const (
	EventMention = "mention"
)

// MentionEvent tells a user they were @mentioned in a post.
type MentionEvent struct {
	Type            string    `json:"type"`
	PostID          uint      `json:"post_id"`
	MentionID       uint      `json:"mention_id"`
	MentionedUserID uint      `json:"mentioned_user_id"`
	MentionerUserID uint      `json:"mentioner_user_id"`
	Excerpt         string    `json:"excerpt"`
	CreatedAt       time.Time `json:"created_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the per-user notification channel name.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishMention encodes ev and publishes it to the mentioned user.
func (n *Notifier) PublishMention(ctx context.Context, ev MentionEvent) error {
	ev.Type = EventMention
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal mention event: %w", err)
	}
	return n.PublishUser(ctx, ev.MentionedUserID, string(b))
}
