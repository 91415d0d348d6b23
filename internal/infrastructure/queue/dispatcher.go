package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes consumed events to a fixed set of workers using
// consistent hashing on the aggregate id, so events for the same media
// record are applied in arrival order.
type Dispatcher struct {
	workers []chan *domain.Event
	service ports.EventService
	log     zerolog.Logger
	wg      sync.WaitGroup
	// ctx is the context given to Start; Enqueue gives up once it is done.
	ctx context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.Event, numWorkers),
		service: service,
		log:     log,
		ctx:     context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	for i, ch := range d.workers {
		i, ch := i, ch
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its aggregate.
// The call blocks once that worker's buffer is full, until the worker drains
// it or the Start context is cancelled. Events arriving after cancellation
// are dropped.
func (d *Dispatcher) Enqueue(ev *domain.Event) {
	idx := d.shardIndex(ev.AggregateID)
	select {
	case d.workers[idx] <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-d.ctx.Done():
		metrics.EventsErrorsTotal.WithLabelValues("shutdown").Inc()
		d.log.Warn().
			Str("event_id", ev.ID).
			Str("aggregate_id", ev.AggregateID).
			Msg("dispatcher stopped, event dropped")
	}
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Event) {
	workerLabel := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(workerLabel).Set(float64(len(ch)))

			start := time.Now()
			if err := d.service.Process(ctx, ev); err != nil {
				metrics.EventsErrorsTotal.WithLabelValues("process").Inc()
				metrics.EventProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
				d.log.Error().Err(err).
					Str("event_id", ev.ID).
					Str("aggregate_id", ev.AggregateID).
					Int("worker_id", id).
					Msg("event processing failed")
				continue
			}
			metrics.EventsProcessedTotal.WithLabelValues(string(ev.Name)).Inc()
			metrics.EventProcessingDuration.WithLabelValues(string(ev.Name)).Observe(time.Since(start).Seconds())
		}
	}
}
