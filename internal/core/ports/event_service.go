package ports

import (
	"context"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// EventService applies the side effects of a consumed event.
type EventService interface {
	Process(ctx context.Context, event *domain.Event) error
}
