package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	// Claim records eventID as processed and reports whether this call was
	// the first to do so.
	Claim(ctx context.Context, eventID string) (bool, error)
}

type eventService struct {
	mediaRepo ports.MediaRepository
	eventLog  ports.EventLog
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	mediaRepo ports.MediaRepository,
	eventLog ports.EventLog,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		mediaRepo: mediaRepo,
		eventLog:  eventLog,
		dedup:     dedup,
		log:       log,
	}
}

// Process deduplicates, applies and audits a single consumed event.
func (s *eventService) Process(ctx context.Context, ev *domain.Event) error {
	// 1. Idempotency check. Several replicas may receive the same message.
	first, err := s.dedup.Claim(ctx, ev.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("dedup check failed, processing anyway")
	} else if !first {
		s.log.Debug().Str("event_id", ev.ID).Str("event", string(ev.Name)).Msg("duplicate event skipped")
		return nil
	}

	// 2. Apply side effects.
	switch ev.Name {
	case domain.EventMediaViewed:
		var p domain.MediaViewedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("process event: decode %s payload: %w", ev.Name, err)
		}
		if p.UUID == "" {
			p.UUID = ev.AggregateID
		}
		if err := s.mediaRepo.IncrementViews(ctx, p.UUID, 1); err != nil {
			return fmt.Errorf("process event: increment views: %w", err)
		}
	}

	// 3. Audit trail (non-fatal on failure).
	if err := s.eventLog.Append(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to append audit event")
	}

	s.log.Info().
		Str("event_id", ev.ID).
		Str("event", string(ev.Name)).
		Str("aggregate_id", ev.AggregateID).
		Msg("event processed")

	return nil
}
