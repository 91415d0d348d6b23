package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

const collectionEvents = "media_events"

// EventLog appends consumed events to the media_events audit collection.
type EventLog struct {
	col *mongo.Collection
	now func() time.Time
}

// NewEventLog creates a new EventLog.
func NewEventLog(db *mongo.Database) *EventLog {
	return &EventLog{col: db.Collection(collectionEvents), now: time.Now}
}

var _ ports.EventLog = (*EventLog)(nil)

func (l *EventLog) Append(ctx context.Context, ev *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := l.col.InsertOne(ctx, l.document(ev)); err != nil {
		return fmt.Errorf("append event %s: %w", ev.ID, err)
	}
	return nil
}

// document flattens ev into the stored shape. The payload is kept as a
// sub-document when it is a JSON object so it stays queryable.
func (l *EventLog) document(ev *domain.Event) bson.M {
	doc := bson.M{
		"event_id":     ev.ID,
		"name":         string(ev.Name),
		"aggregate_id": ev.AggregateID,
		"occurred_at":  ev.OccurredAt.UTC(),
		"processed_at": l.now().UTC(),
	}
	if len(ev.Payload) > 0 {
		var payload bson.M
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			doc["payload_raw"] = string(ev.Payload)
		} else {
			doc["payload"] = payload
		}
	}
	return doc
}

// EnsureIndexes creates necessary indexes on the media_events collection.
func (l *EventLog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "aggregate_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := l.col.Indexes().CreateMany(ctx, indexes)
	return err
}
