package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

const (
	defaultSearchTake = 50
	maxSearchTake     = 100
)

type MediaService struct {
	repo   ports.MediaRepository
	events ports.EventPublisher
	logger zerolog.Logger
}

func NewMediaService(repo ports.MediaRepository, events ports.EventPublisher, logger zerolog.Logger) *MediaService {
	return &MediaService{repo: repo, events: events, logger: logger}
}

// RegisterMedia stores a new media record owned by owner.
func (s *MediaService) RegisterMedia(ctx context.Context, input ports.RegisterMediaInput, owner domain.Identity) (*ports.RegisterMediaResult, error) {
	now := time.Now().UTC()
	created, err := s.repo.Register(ctx, &domain.Media{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Type:            input.Type,
		Description:     input.Description,
		ContentBase64:   input.ContentBase64,
		DurationSeconds: input.DurationSeconds,
		Available:       input.Available,
		Owner:           domain.Owner{ID: owner.ID, Username: owner.Name},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventMediaRegistered, created.ID, map[string]string{"uuid": created.ID, "owner": owner.ID})
	s.logger.Info().Str("media_id", created.ID).Str("owner", owner.ID).Msg("media registered")

	return &ports.RegisterMediaResult{
		ID:              created.ID,
		Title:           created.Title,
		Type:            created.Type,
		Description:     created.Description,
		DurationSeconds: created.DurationSeconds,
	}, nil
}

// GetMediaByID returns the record and announces the view.
func (s *MediaService) GetMediaByID(ctx context.Context, id string) (*ports.MediaDetail, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, domain.SignalMediaNotFound
	}

	s.publish(ctx, domain.EventMediaViewed, id, domain.MediaViewedPayload{UUID: id})

	return &ports.MediaDetail{
		Title:           media.Title,
		Type:            media.Type,
		Description:     media.Description,
		ContentBase64:   media.ContentBase64,
		DurationSeconds: media.DurationSeconds,
		Views:           media.Views,
		Available:       media.Available,
		CreatedAt:       media.CreatedAt,
		Owner:           media.Owner.Username,
	}, nil
}

// SearchMedia returns a page of media matching filter.
func (s *MediaService) SearchMedia(ctx context.Context, filter domain.MediaFilter) ([]ports.MediaSummary, error) {
	if filter.Take < 0 || filter.Skip < 0 {
		return nil, domain.SignalMediaSearchInvalidFilters
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.SignalMediaSearchInvalidFilters
	}
	if filter.Take == 0 {
		filter.Take = defaultSearchTake
	}
	if filter.Take > maxSearchTake {
		filter.Take = maxSearchTake
	}

	found, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ports.MediaSummary, len(found))
	for i, m := range found {
		out[i] = ports.MediaSummary{
			ID:              m.ID,
			Title:           m.Title,
			Type:            m.Type,
			Description:     m.Description,
			DurationSeconds: m.DurationSeconds,
			Views:           m.Views,
			Available:       m.Available,
			CreatedAt:       m.CreatedAt,
			Username:        m.Owner.Username,
		}
	}
	return out, nil
}

// ModifyMediaByID applies input to a record owned by actor. Admins may
// modify any record.
func (s *MediaService) ModifyMediaByID(ctx context.Context, id string, actor domain.Identity, input ports.ModifyMediaInput) error {
	patch := domain.MediaPatch{
		Title:           input.Title,
		Type:            input.Type,
		Description:     input.Description,
		ContentBase64:   input.ContentBase64,
		DurationSeconds: input.DurationSeconds,
		Available:       input.Available,
	}
	if patch.Empty() {
		return domain.SignalMediaUpdateRejected
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return domain.SignalMediaUpdateRejected
	}

	return s.repo.ModifyByID(ctx, id, ownerScope(actor), patch)
}

// DeleteMediaByID removes a record owned by actor. Admins may delete any
// record.
func (s *MediaService) DeleteMediaByID(ctx context.Context, id string, actor domain.Identity) error {
	if err := s.repo.DeleteByID(ctx, id, ownerScope(actor)); err != nil {
		return err
	}

	s.publish(ctx, domain.EventMediaDeleted, id, map[string]string{"uuid": id, "actor": actor.ID})
	return nil
}

// publish sends the event and only logs on failure; a lost notification
// never fails the request that produced it.
func (s *MediaService) publish(ctx context.Context, name domain.EventName, aggregateID string, payload any) {
	if err := s.events.Publish(ctx, name, aggregateID, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", string(name)).Str("media_id", aggregateID).Msg("failed to publish event")
	}
}

// ownerScope returns the owner id a mutation is restricted to; empty means
// unrestricted.
func ownerScope(actor domain.Identity) string {
	if actor.Role == domain.RoleAdmin {
		return ""
	}
	return actor.ID
}
