package ports

import (
	"context"
	"time"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// RegisterMediaInput carries the data for a new media record.
type RegisterMediaInput struct {
	Title           string
	Type            domain.MediaType
	Description     string
	ContentBase64   string
	DurationSeconds int
	Available       bool
}

// RegisterMediaResult is returned after creating a media record.
type RegisterMediaResult struct {
	ID              string
	Title           string
	Type            domain.MediaType
	Description     string
	DurationSeconds int
}

// MediaDetail is the full view returned by GetMediaByID.
type MediaDetail struct {
	Title           string
	Type            domain.MediaType
	Description     string
	ContentBase64   string
	DurationSeconds int
	Views           int64
	Available       bool
	CreatedAt       time.Time
	Owner           string
}

// MediaSummary is the lightweight item used in search results.
type MediaSummary struct {
	ID              string
	Title           string
	Type            domain.MediaType
	Description     string
	DurationSeconds int
	Views           int64
	Available       bool
	CreatedAt       time.Time
	Username        string
}

// ModifyMediaInput carries a media update. Nil fields are left untouched.
type ModifyMediaInput struct {
	Title           *string
	Type            *domain.MediaType
	Description     *string
	ContentBase64   *string
	DurationSeconds *int
	Available       *bool
}

// MediaService defines the media use-cases exposed to transports.
type MediaService interface {
	RegisterMedia(ctx context.Context, input RegisterMediaInput, owner domain.Identity) (*RegisterMediaResult, error)
	GetMediaByID(ctx context.Context, id string) (*MediaDetail, error)
	SearchMedia(ctx context.Context, filter domain.MediaFilter) ([]MediaSummary, error)
	ModifyMediaByID(ctx context.Context, id string, actor domain.Identity, input ModifyMediaInput) error
	DeleteMediaByID(ctx context.Context, id string, actor domain.Identity) error
}
