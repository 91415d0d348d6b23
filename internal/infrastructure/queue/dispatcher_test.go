package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

type recordingService struct {
	mu    sync.Mutex
	order map[string][]string
	fail  string
	done  chan struct{}
}

func (s *recordingService) Process(_ context.Context, ev *domain.Event) error {
	defer func() { s.done <- struct{}{} }()
	if ev.ID == s.fail {
		return errors.New("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order[ev.AggregateID] = append(s.order[ev.AggregateID], ev.ID)
	return nil
}

func TestDispatcher_PreservesPerAggregateOrder(t *testing.T) {
	svc := &recordingService{order: make(map[string][]string), fail: "m2-3", done: make(chan struct{}, 64)}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	const perAggregate = 10
	for i := 0; i < perAggregate; i++ {
		for _, agg := range []string{"m1", "m2", "m3"} {
			d.Enqueue(&domain.Event{ID: fmt.Sprintf("%s-%d", agg, i), AggregateID: agg, Name: domain.EventMediaViewed})
		}
	}

	for i := 0; i < 3*perAggregate; i++ {
		select {
		case <-svc.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d events", i)
		}
	}
	cancel()
	d.Wait()

	for _, agg := range []string{"m1", "m3"} {
		got := svc.order[agg]
		if len(got) != perAggregate {
			t.Fatalf("%s: expected %d events, got %d", agg, perAggregate, len(got))
		}
		for i, id := range got {
			if want := fmt.Sprintf("%s-%d", agg, i); id != want {
				t.Fatalf("%s: out of order at %d: got %s want %s", agg, i, id, want)
			}
		}
	}
	if len(svc.order["m2"]) != perAggregate-1 {
		t.Fatalf("failed event must not stop the worker, got %v", svc.order["m2"])
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for _, id := range []string{"", "m1", "a-much-longer-aggregate-identifier"} {
		first := d.shardIndex(id)
		if first < 0 || first >= defaultWorkers || d.shardIndex(id) != first {
			t.Fatalf("unstable or out of range shard for %q: %d", id, first)
		}
	}
}

func TestDispatcher_EnqueueReturnsAfterShutdown(t *testing.T) {
	svc := &recordingService{order: make(map[string][]string), done: make(chan struct{}, 1)}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	// one more than the buffer holds: the last send has no reader
	returned := make(chan struct{})
	go func() {
		defer close(returned)
		for i := 0; i <= channelBuffer; i++ {
			d.Enqueue(&domain.Event{ID: fmt.Sprintf("e-%d", i), AggregateID: "m1", Name: domain.EventMediaViewed})
		}
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue blocked after the dispatcher was stopped")
	}
}
