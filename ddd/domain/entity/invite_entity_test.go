package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvite_RedeemCountsUses(t *testing.T) {
	inv, err := NewInviteEntity("stream-1", "user-1", "viewer", 2, time.Hour)
	require.NoError(t, err)
	require.Len(t, inv.Code(), 10)

	now := time.Now()
	require.NoError(t, inv.Redeem(now))
	require.NoError(t, inv.Redeem(now))
	require.Equal(t, 2, inv.UseCount())

	// 次数耗尽后拒绝
	require.Error(t, inv.Redeem(now))
	require.Equal(t, 2, inv.UseCount())
}

func TestInvite_UnlimitedUsesWhenMaxIsZero(t *testing.T) {
	inv, err := NewInviteEntity("stream-1", "user-1", "contributor", 0, 0)
	require.NoError(t, err)
	require.Nil(t, inv.ExpiresAt())

	now := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, inv.Redeem(now))
	}
	require.Equal(t, 50, inv.UseCount())
}

func TestInvite_RedeemRejectsExpired(t *testing.T) {
	inv, err := NewInviteEntity("stream-1", "user-1", "viewer", 0, time.Minute)
	require.NoError(t, err)

	require.False(t, inv.IsExpired(time.Now()))
	late := time.Now().Add(2 * time.Minute)
	require.True(t, inv.IsExpired(late))
	require.Error(t, inv.Redeem(late))
	require.Equal(t, 0, inv.UseCount())
}

func TestInvite_RejectsUnknownRole(t *testing.T) {
	_, err := NewInviteEntity("stream-1", "user-1", "owner", 0, 0)
	require.Error(t, err)

	_, err = NewInviteEntity("stream-1", "user-1", "viewer", -1, 0)
	require.Error(t, err)
}
