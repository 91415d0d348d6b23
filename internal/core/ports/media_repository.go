package ports

import (
	"context"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// MediaRepository defines persistence operations for media records.
type MediaRepository interface {
	// Search returns the media matching filter, or an empty slice.
	Search(ctx context.Context, filter domain.MediaFilter) ([]*domain.Media, error)
	// Register stores a new media record. A duplicate title for the same
	// owner yields domain.SignalMediaAlreadyExists.
	Register(ctx context.Context, media *domain.Media) (*domain.Media, error)
	// GetByID returns nil, nil when no record has id.
	GetByID(ctx context.Context, id string) (*domain.Media, error)
	// ModifyByID applies patch to the record. When ownerID is non-empty the
	// record must belong to that user, otherwise domain.SignalMediaNotFound.
	ModifyByID(ctx context.Context, id, ownerID string, patch domain.MediaPatch) error
	DeleteByID(ctx context.Context, id, ownerID string) error
	IncrementViews(ctx context.Context, id string, delta int64) error
}
