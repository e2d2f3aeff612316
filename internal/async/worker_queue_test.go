package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerQueueProcessesEveryJob(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	proc := ProcessorFunc(func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Path)
		return nil
	})

	q := NewWorkerQueue(proc, nil, WithWorkers(3), WithQueueSize(2))
	paths := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), NewJob(p)))
	}
	q.Shutdown(context.Background())

	assert.ElementsMatch(t, paths, seen)
}

func TestWorkerQueueRejectsAfterShutdown(t *testing.T) {
	q := NewWorkerQueue(ProcessorFunc(func(context.Context, Job) error { return nil }), nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), NewJob("late.png"))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWorkerQueueAppliesProcessTimeout(t *testing.T) {
	var timedOut atomic.Bool
	proc := ProcessorFunc(func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		timedOut.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})

	q := NewWorkerQueue(proc, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond))
	require.NoError(t, q.Enqueue(context.Background(), NewJob("slow.png")))
	q.Shutdown(context.Background())

	assert.True(t, timedOut.Load())
}

func TestWorkerQueueShutdownHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	proc := ProcessorFunc(func(context.Context, Job) error {
		<-release
		return nil
	})

	q := NewWorkerQueue(proc, nil, WithWorkers(1), WithProcessTimeout(time.Minute))
	require.NoError(t, q.Enqueue(context.Background(), NewJob("stuck.png")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	q.Shutdown(ctx)
	assert.Less(t, time.Since(start), time.Second)
}
