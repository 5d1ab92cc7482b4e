package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryJobQueue_FIFO(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.Enqueue(ctx, "job-2"))
	require.NoError(t, q.Enqueue(ctx, "job-3"))
	require.Equal(t, 3, q.Size())

	for _, want := range []string{"job-1", "job-2", "job-3"} {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.True(t, q.IsEmpty())
}

func TestMemoryJobQueue_DuplicateEnqueueIsIdempotent(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.Equal(t, 1, q.Size())
	require.True(t, q.Contains("job-1"))
}

func TestMemoryJobQueue_EnqueueFront(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.EnqueueFront(ctx, "urgent"))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "urgent", got)
}

func TestMemoryJobQueue_EnqueueAfterHoldsUntilDue(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.EnqueueAfter("delayed", time.Now().Add(50*time.Millisecond)))
	require.NoError(t, q.Enqueue(ctx, "immediate"))

	// 退避未到期的作业被跳过
	got, ok := q.TryDequeue()
	require.True(t, ok)
	require.Equal(t, "immediate", got)

	_, ok = q.TryDequeue()
	require.False(t, ok)

	// 到期后阻塞出队应返回延迟作业
	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "delayed", got)
}

func TestMemoryJobQueue_DequeueRespectsContext(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryJobQueue_Remove(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.Enqueue(ctx, "job-2"))

	require.True(t, q.Remove("job-1"))
	require.False(t, q.Remove("job-1"))
	require.False(t, q.Contains("job-1"))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "job-2", got)
}

func TestMemoryJobQueue_CapacityLimit(t *testing.T) {
	q := NewMemoryJobQueue(2)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.Enqueue(ctx, "job-2"))
	require.ErrorIs(t, q.Enqueue(ctx, "job-3"), ErrQueueFull)
}

func TestMemoryJobQueue_Close(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job-1"))
	require.NoError(t, q.Close())
	require.True(t, q.IsClosed())

	require.ErrorIs(t, q.Enqueue(ctx, "job-2"), ErrQueueClosed)
	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, ErrQueueClosed)

	// 重复关闭保持幂等
	require.NoError(t, q.Close())
}

func TestMemoryJobQueue_DequeueWakesOnEnqueue(t *testing.T) {
	q := NewMemoryJobQueue(10)
	ctx := context.Background()

	done := make(chan string, 1)
	go func() {
		got, err := q.Dequeue(ctx)
		if err == nil {
			done <- got
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Enqueue(ctx, "job-late"))

	select {
	case got := <-done:
		require.Equal(t, "job-late", got)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake up after enqueue")
	}
}
