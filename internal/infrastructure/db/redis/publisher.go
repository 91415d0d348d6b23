package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// Publisher sends domain events as JSON envelopes on a Redis pub/sub channel.
type Publisher struct {
	client  *redis.Client
	channel string
	now     func() time.Time
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel, now: time.Now}
}

var _ ports.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, name domain.EventName, aggregateID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("publish %s: encode payload: %w", name, err)
	}

	envelope, err := json.Marshal(domain.Event{
		ID:          uuid.NewString(),
		Name:        name,
		AggregateID: aggregateID,
		Payload:     raw,
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: encode envelope: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, envelope).Err(); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(name), "error").Inc()
		return fmt.Errorf("publish %s: %w", name, err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(name), "ok").Inc()
	return nil
}
