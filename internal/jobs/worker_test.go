package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_EnqueueRunsJob(t *testing.T) {
	worker := NewWorker(2)
	defer worker.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	worker.Enqueue(func(ctx context.Context) error {
		wg.Done()
		return nil
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestWorker_EnqueueAsyncTracksFailures(t *testing.T) {
	worker := NewWorker(1)

	var wg sync.WaitGroup
	wg.Add(2)
	worker.EnqueueAsync(func(ctx context.Context) error {
		defer wg.Done()
		return nil
	})
	worker.EnqueueAsync(func(ctx context.Context) error {
		defer wg.Done()
		return errors.New("boom")
	})
	wg.Wait()
	worker.Shutdown()

	stats := worker.GetStats()
	assert.Equal(t, int64(2), stats.FinishedJobs)
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
}

func TestWorker_ShutdownStopsScheduledJobs(t *testing.T) {
	worker := NewWorker(1)

	ran := make(chan struct{}, 1)
	worker.ScheduleEvery(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job never ran")
	}

	worker.Shutdown()

	// After shutdown the ticker loop has exited
	select {
	case <-worker.Context().Done():
	default:
		t.Fatal("worker context not cancelled")
	}
}
