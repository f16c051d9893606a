package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"masterlink/internal/models"
)

// Channels consumed by the chat and push subsystems.
const (
	ChannelThreadCreated = "chat:thread_created"
	ChannelOfferSent     = "dispatch:offer_sent"
)

// Publisher pushes engine events onto Redis pub/sub. A nil Publisher or a
// Publisher without a client silently drops events, so the engine keeps
// working in environments without Redis.
type Publisher struct {
	RDB *redis.Client
}

func (p *Publisher) PublishThreadCreated(ctx context.Context, ev models.ThreadCreatedEvent) error {
	return p.publish(ctx, ChannelThreadCreated, ev)
}

func (p *Publisher) PublishOfferSent(ctx context.Context, ev models.OfferSentEvent) error {
	return p.publish(ctx, ChannelOfferSent, ev)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload interface{}) error {
	if p == nil || p.RDB == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.Publish(ctx, channel, data).Err()
}
