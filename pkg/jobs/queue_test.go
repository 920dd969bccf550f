package jobs

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

func TestQueueProcessesAndDrainsOnStop(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Type)
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 10})

	q.Start(context.Background())
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{Type: "CHECKIN_CREATE"}))
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 5)
	assert.Equal(t, uint64(5), q.Stats().Processed)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{Type: "LOGIN"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	q.Stop()
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, uint64(0), q.Stats().Failed)
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		return errors.New("permanent")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{Type: "LOGIN"}))
	q.Stop()
	assert.Equal(t, uint64(1), q.Stats().Failed)
}

func TestQueueRejectsWhenNotRunning(t *testing.T) {
	q := NewQueue("audit", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{Type: "X"}))

	q.Start(context.Background())
	q.Stop()
	require.Error(t, q.Enqueue(Job{Type: "X"}))
}

func TestQueueReportsFullBuffer(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	var full bool
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(Job{Type: "X"}); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	close(block)
	q.Stop()
	assert.True(t, full)
}
