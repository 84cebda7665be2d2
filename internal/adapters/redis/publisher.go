package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"royal_palate/internal/domain"
)

const DefaultChannel = "palate:events"

// Publisher forwards domain events to a Redis pub/sub channel as JSON so
// out-of-process consumers (moderation, fulfilment) can subscribe.
type Publisher struct {
	c       *redis.Client
	channel string
}

func NewPublisher(c *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{c: c, channel: channel}
}

func (p *Publisher) Channel() string { return p.channel }

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.c.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	log.Debug().Str("channel", p.channel).Str("event_id", e.ID).Str("type", string(e.Type)).Msg("event published")
	return nil
}
