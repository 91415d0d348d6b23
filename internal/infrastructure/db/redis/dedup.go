package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esteveslima/media-collection/internal/api/metrics"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Key format: dedup:event:<event_id>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// Claim marks eventID as processed with a single SET NX and reports whether
// this caller got there first. The mark expires after the TTL.
func (d *DedupChecker) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(eventID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	if ok {
		metrics.EventsDedupTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
	}
	return ok, nil
}

func (d *DedupChecker) key(eventID string) string {
	return "dedup:event:" + eventID
}
