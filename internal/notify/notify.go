package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"intervalTimerService/internal/clock"
	"intervalTimerService/internal/config"
)

// Channel is the Redis pub/sub channel for system notifications
const Channel = "intervalTimer:notifications"

const publishTimeout = 3 * time.Second

// Notifier delivers interval notifications
type Notifier interface {
	Notify(message string, ctx clock.NotifierContext)
}

// Message is the payload published for system notifications
type Message struct {
	Message string             `json:"message"`
	Kind    clock.IntervalKind `json:"kind"`
	SentAt  time.Time          `json:"sentAt"`
}

// New returns the notifier for a style. The system style needs a Redis
// client and falls back to the simple style without one.
func New(style config.NotificationStyle, client *redis.Client) Notifier {
	if style == config.NotificationSystem {
		if client != nil {
			return NewRedisNotifier(client)
		}
		log.Printf("⚠️ System notifications need Redis, falling back to simple notifications")
	}
	return LogNotifier{}
}

// LogNotifier writes notifications to the service log
type LogNotifier struct{}

// Notify implements Notifier
func (LogNotifier) Notify(message string, ctx clock.NotifierContext) {
	log.Printf("🔔 %s", message)
}

// RedisNotifier publishes notifications for connected clients
type RedisNotifier struct {
	client  *redis.Client
	channel string
	now     func() time.Time
}

// NewRedisNotifier publishes on Channel
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client, channel: Channel, now: time.Now}
}

// Notify implements Notifier. Failures are logged, never returned.
func (rn *RedisNotifier) Notify(message string, nctx clock.NotifierContext) {
	payload, err := json.Marshal(Message{Message: message, Kind: nctx.Kind, SentAt: rn.now()})
	if err != nil {
		log.Printf("❌ Failed to encode notification: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := rn.client.Publish(ctx, rn.channel, payload).Err(); err != nil {
		log.Printf("❌ Failed to publish notification: %v", err)
		return
	}
	log.Printf("🔔 Published notification for %s", nctx.Kind)
}
