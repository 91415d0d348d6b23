package domain

import (
	"encoding/json"
	"time"
)

// EventName identifies a side-effect notification.
type EventName string

const (
	EventMediaViewed     EventName = "MEDIA_VIEWED"
	EventMediaRegistered EventName = "MEDIA_REGISTERED"
	EventMediaDeleted    EventName = "MEDIA_DELETED"
	EventUserRegistered  EventName = "USER_REGISTERED"
)

// Event is the envelope published to the notification channel.
type Event struct {
	ID          string          `json:"id"`
	Name        EventName       `json:"name"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// MediaViewedPayload is the payload of EventMediaViewed.
type MediaViewedPayload struct {
	UUID string `json:"uuid"`
}
