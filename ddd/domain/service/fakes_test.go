package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
)

// fakeVideoRepo 测试用内存视频仓储
type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*entity.VideoEntity
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[string]*entity.VideoEntity)}
}

func (r *fakeVideoRepo) CreateVideo(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.VideoUUID()] = v
	return nil
}

func (r *fakeVideoRepo) GetVideoByUUID(_ context.Context, videoUUID string) (*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoUUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVideoRepo) GetVideosByUUIDs(_ context.Context, videoUUIDs []string) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, id := range videoUUIDs {
		if v, ok := r.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) GetVideosByStream(_ context.Context, streamUUID string, _, _ int) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.StreamUUID() == streamUUID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) GetVideosByStatus(_ context.Context, status vo.VideoStatus, _, _ int) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.Status() == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) UpdateVideo(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.VideoUUID()] = v
	return nil
}

func (r *fakeVideoRepo) DeleteVideo(_ context.Context, videoUUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, videoUUID)
	return nil
}

func (r *fakeVideoRepo) AdvanceProcessingIndex(_ context.Context, _ string, _, _ int) error {
	return nil
}

func (r *fakeVideoRepo) GetIndexableVideos(_ context.Context) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.Status() == vo.VideoStatusReady && len(v.Embedding()) > 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) GetDuplicatesOf(_ context.Context, originalUUID string) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.DuplicateOf() == originalUUID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) GetVideosByPovGroup(_ context.Context, povGroupID string) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.PovGroupID() == povGroupID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) IncrementLikeCount(_ context.Context, videoUUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoUUID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	likes := v.LikeCount() + 1
	v.SetEngagement(likes, v.ShareCount())
	return likes, nil
}

func (r *fakeVideoRepo) IncrementShareCount(_ context.Context, videoUUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoUUID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	shares := v.ShareCount() + 1
	v.SetEngagement(v.LikeCount(), shares)
	return shares, nil
}

func (r *fakeVideoRepo) CountVideosByStatus(_ context.Context) (map[vo.VideoStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[vo.VideoStatus]int64)
	for _, v := range r.videos {
		counts[v.Status()]++
	}
	return counts, nil
}

func (r *fakeVideoRepo) GetStreamStorageStats(_ context.Context, streamUUID string) (*repo.StreamStorageStats, error) {
	return &repo.StreamStorageStats{StreamUUID: streamUUID}, nil
}

// fakeJobRepo 测试用内存作业仓储
type fakeJobRepo struct {
	mu    sync.Mutex
	jobs  map[string]*entity.ProcessingJobEntity
	order []string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.ProcessingJobEntity)}
}

func (r *fakeJobRepo) CreateJob(_ context.Context, job *entity.ProcessingJobEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobUUID()] = job
	r.order = append(r.order, job.JobUUID())
	return nil
}

func (r *fakeJobRepo) GetJobByUUID(_ context.Context, jobUUID string) (*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobUUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (r *fakeJobRepo) GetActiveJobByVideo(_ context.Context, videoUUID string) (*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		job := r.jobs[r.order[i]]
		if job.VideoUUID() == videoUUID && job.IsActive() {
			return job, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeJobRepo) GetLatestJobByVideo(_ context.Context, videoUUID string) (*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		job := r.jobs[r.order[i]]
		if job.VideoUUID() == videoUUID {
			return job, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeJobRepo) UpdateJob(_ context.Context, job *entity.ProcessingJobEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobUUID()] = job
	return nil
}

func (r *fakeJobRepo) GetDispatchableJobs(_ context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProcessingJobEntity
	for _, id := range r.order {
		job := r.jobs[id]
		if job.IsDispatchable(now) {
			out = append(out, job)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeJobRepo) GetExpiredLeaseJobs(_ context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProcessingJobEntity
	for _, id := range r.order {
		job := r.jobs[id]
		if job.IsLeaseExpired(now) {
			out = append(out, job)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeJobRepo) GetJobsByStatus(_ context.Context, status vo.JobStatus, limit, _ int) ([]*entity.ProcessingJobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProcessingJobEntity
	for _, id := range r.order {
		job := r.jobs[id]
		if job.Status() == status {
			out = append(out, job)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeJobRepo) GetJobStatistics(_ context.Context) (*repo.JobStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repo.JobStatistics{}
	for _, job := range r.jobs {
		stats.TotalJobs++
		switch job.Status() {
		case vo.JobStatusPending:
			stats.PendingJobs++
		case vo.JobStatusLeased:
			stats.LeasedJobs++
		case vo.JobStatusFailed:
			stats.FailedJobs++
		case vo.JobStatusSucceeded:
			stats.SucceededJobs++
		case vo.JobStatusAbandoned:
			stats.AbandonedJobs++
		}
	}
	return stats, nil
}
