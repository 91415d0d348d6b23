package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/core/domain"
)

// Subscriber consumes event envelopes from a Redis pub/sub channel and hands
// each decoded event to sink.
type Subscriber struct {
	client  *redis.Client
	channel string
	sink    func(*domain.Event)
	log     zerolog.Logger
}

func NewSubscriber(client *redis.Client, channel string, sink func(*domain.Event), log zerolog.Logger) *Subscriber {
	return &Subscriber{client: client, channel: channel, sink: sink, log: log}
}

// Run subscribes and blocks until ctx is cancelled or the subscription
// channel is closed. Undecodable messages are logged and dropped.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	// Receive blocks until the SUBSCRIBE is acknowledged.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.log.Info().Str("channel", s.channel).Msg("event subscriber started")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil || ev.ID == "" {
				metrics.EventsErrorsTotal.WithLabelValues("decode").Inc()
				s.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable event")
				continue
			}
			s.sink(&ev)
		}
	}
}
