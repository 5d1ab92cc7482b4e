package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/vo"
)

func TestProcessingJob_LeaseConsumesAttempt(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.Equal(t, vo.JobStatusPending, j.Status())
	require.Equal(t, 0, j.Attempts())

	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.Equal(t, vo.JobStatusLeased, j.Status())
	require.Equal(t, 1, j.Attempts())
	require.Equal(t, "worker-a", j.WorkerID())
	require.NotNil(t, j.LeaseExpiresAt())
	require.NotNil(t, j.StartedAt())
}

func TestProcessingJob_CannotLeaseTwice(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.Error(t, j.Lease("worker-b", time.Minute))
}

func TestProcessingJob_RenewOnlyByHolder(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.RenewLease("worker-a", time.Minute))
	require.Error(t, j.RenewLease("worker-b", time.Minute))
}

func TestProcessingJob_SucceedClearsLease(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.Succeed())
	require.Equal(t, vo.JobStatusSucceeded, j.Status())
	require.Empty(t, j.WorkerID())
	require.Nil(t, j.LeaseExpiresAt())
	require.NotNil(t, j.FinishedAt())
	require.False(t, j.IsActive())
}

func TestProcessingJob_FailSchedulesBackoff(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.NoError(t, j.Lease("worker-a", time.Minute))

	require.NoError(t, j.Fail("stage transcode failed", 30*time.Second))
	require.Equal(t, vo.JobStatusFailed, j.Status())
	require.Equal(t, "stage transcode failed", j.LastError())
	require.NotNil(t, j.NotBefore())

	// 退避到期前不可调度
	require.False(t, j.IsDispatchable(time.Now()))
	require.True(t, j.IsDispatchable(time.Now().Add(time.Minute)))
}

func TestProcessingJob_ExhaustedAttemptsAbandon(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 2)

	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.Fail("attempt 1", 0))
	require.Equal(t, vo.JobStatusFailed, j.Status())

	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.Fail("attempt 2", 0))
	require.Equal(t, vo.JobStatusAbandoned, j.Status())
	require.NotNil(t, j.FinishedAt())

	// 放弃后不可再租
	require.Error(t, j.Lease("worker-a", time.Minute))
}

func TestProcessingJob_AbandonSkipsRemainingAttempts(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 5)
	require.NoError(t, j.Lease("worker-a", time.Minute))

	require.NoError(t, j.Abandon("source media corrupt"))
	require.Equal(t, vo.JobStatusAbandoned, j.Status())
	require.Equal(t, 1, j.Attempts())
	require.Equal(t, "source media corrupt", j.LastError())
	require.Nil(t, j.NotBefore())
	require.NotNil(t, j.FinishedAt())

	// 只有租出状态可以放弃
	fresh := NewProcessingJobEntity("video-2", 5)
	require.Error(t, fresh.Abandon("not leased"))
}

func TestProcessingJob_ReclaimRefundsAttempt(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 2)
	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.Equal(t, 1, j.Attempts())

	// 崩溃回收不计为一次失败
	require.NoError(t, j.Reclaim())
	require.Equal(t, vo.JobStatusPending, j.Status())
	require.Equal(t, 0, j.Attempts())
	require.Empty(t, j.WorkerID())

	// 回收后仍可按完整次数重试
	require.NoError(t, j.Lease("worker-b", time.Minute))
	require.NoError(t, j.Fail("attempt 1", 0))
	require.NoError(t, j.Lease("worker-b", time.Minute))
	require.NoError(t, j.Fail("attempt 2", 0))
	require.Equal(t, vo.JobStatusAbandoned, j.Status())
}

func TestProcessingJob_IsLeaseExpired(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.NoError(t, j.Lease("worker-a", 10*time.Millisecond))
	require.False(t, j.IsLeaseExpired(time.Now()))
	require.True(t, j.IsLeaseExpired(time.Now().Add(time.Second)))
}

func TestProcessingJob_ResetForRetry(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 1)
	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.Fail("boom", 0))
	require.Equal(t, vo.JobStatusAbandoned, j.Status())

	require.NoError(t, j.ResetForRetry())
	require.Equal(t, vo.JobStatusPending, j.Status())
	require.Equal(t, 0, j.Attempts())
	require.Empty(t, j.LastError())
	require.Nil(t, j.NotBefore())
	require.Nil(t, j.FinishedAt())
}

func TestProcessingJob_ResetForRetryOnlyFromFailure(t *testing.T) {
	j := NewProcessingJobEntity("video-1", 3)
	require.Error(t, j.ResetForRetry())

	require.NoError(t, j.Lease("worker-a", time.Minute))
	require.NoError(t, j.Succeed())
	require.Error(t, j.ResetForRetry())
}
