package lease

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLeaseStore_AcquireIsExclusive(t *testing.T) {
	s := NewMemoryLeaseStore()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, "video:v1", "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Acquire(ctx, "video:v1", "worker-b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	// 同一持有者重入允许
	ok, err = s.Acquire(ctx, "video:v1", "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLeaseStore_RenewOnlyByOwner(t *testing.T) {
	s := NewMemoryLeaseStore()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, "video:v1", "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Renew(ctx, "video:v1", "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Renew(ctx, "video:v1", "worker-b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Renew(ctx, "video:v2", "worker-a", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryLeaseStore_ExpiryAllowsTakeover(t *testing.T) {
	s := NewMemoryLeaseStore()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, "video:v1", "worker-a", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, err = s.Acquire(ctx, "video:v1", "worker-b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLeaseStore_ReleaseOnlyByOwner(t *testing.T) {
	s := NewMemoryLeaseStore()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, "video:v1", "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// 非持有者释放不生效
	require.NoError(t, s.Release(ctx, "video:v1", "worker-b"))
	ok, err = s.Acquire(ctx, "video:v1", "worker-b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Release(ctx, "video:v1", "worker-a"))
	ok, err = s.Acquire(ctx, "video:v1", "worker-b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}
