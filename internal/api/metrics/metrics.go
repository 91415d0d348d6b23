// Package metrics defines and registers the custom Prometheus metrics of the
// media collection API. Metrics are registered on the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "media"

// ── Request metrics ───────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests refused by the auth gate.
// Label:
//   - reason: "missing_header", "missing_token", "invalid_token" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth gate.",
	},
	[]string{"reason"},
)

// ErrorsTotal counts failures resolved by the response normalizer.
// Labels:
//   - channel: "rest" or "graphql"
//   - status: resolved status code
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of failed requests, by channel and resolved status.",
	},
	[]string{"channel", "status"},
)

// PanicsTotal counts handler panics recovered by the normalizer.
var PanicsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_total",
		Help:      "Total number of recovered handler panics.",
	},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts publish attempts.
// Labels:
//   - event: event name (e.g. "MEDIA_VIEWED")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of events published to the notification channel.",
	},
	[]string{"event", "result"},
)

// EventsProcessedTotal counts consumed events that completed processing.
// Label:
//   - event: event name
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of consumed events successfully processed.",
	},
	[]string{"event"},
)

// EventsErrorsTotal counts consumed events that failed.
// Label:
//   - reason: "decode", "process" or "shutdown"
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of consumed events that failed processing.",
	},
	[]string{"reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures dequeue-to-done time of a consumed event.
// Label:
//   - event: event name, or "error" on failure
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// MediaRegisteredTotal counts newly registered media.
// Label:
//   - type: "VIDEO", "AUDIO" or "IMAGE"
var MediaRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_registered_total",
		Help:      "Total number of media registered, by type.",
	},
	[]string{"type"},
)
