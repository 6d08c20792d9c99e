package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lvasseur/go-landslides/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_ProcessesAllSubmitted(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, event *models.Event) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool(2, 10, processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(&models.Event{ID: "e"})
	}
	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 events processed, got %d", processed.Load())
	}
}

func TestPool_StopDrainsQueue(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, event *models.Event) error {
		time.Sleep(5 * time.Millisecond)
		processed.Add(1)
		return nil
	}

	pool := NewPool(2, 50, processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(&models.Event{ID: "e"})
	}

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	if processed.Load() != 20 {
		t.Errorf("expected all 20 events processed before Stop returned, got %d", processed.Load())
	}
}

func TestPool_ContextCancellationStopsWorkers(t *testing.T) {
	processor := func(ctx context.Context, event *models.Event) error {
		return nil
	}

	pool := NewPool(2, 10, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	cancel()
	pool.Stop()
	// goleak verifies no worker goroutine survived.
}
