package ports

import (
	"context"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// EventPublisher sends side-effect notifications. Publishing is
// fire-and-forget: callers only wait for the call to settle.
type EventPublisher interface {
	Publish(ctx context.Context, name domain.EventName, aggregateID string, payload any) error
}

// EventLog persists consumed events to an audit trail.
type EventLog interface {
	Append(ctx context.Context, event *domain.Event) error
}
