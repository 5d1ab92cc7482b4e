package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrQueueFull 队列已满
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed 队列已关闭
	ErrQueueClosed = errors.New("queue is closed")
)

// JobQueue 作业队列接口。队列只保存作业UUID，作业状态以数据库为准。
type JobQueue interface {
	// Enqueue 入队
	Enqueue(ctx context.Context, jobUUID string) error

	// EnqueueFront 插队到队首（需要优先调度的场合）
	EnqueueFront(ctx context.Context, jobUUID string) error

	// EnqueueAfter 退避入队，notBefore之前不会被出队
	EnqueueAfter(jobUUID string, notBefore time.Time) error

	// Dequeue 出队（阻塞直到有可调度作业）
	Dequeue(ctx context.Context) (string, error)

	// TryDequeue 尝试出队（非阻塞），无可调度作业时返回空串
	TryDequeue() (string, bool)

	// Remove 从队列移除指定作业
	Remove(jobUUID string) bool

	// Contains 检查作业是否在队列中
	Contains(jobUUID string) bool

	// Size 获取队列大小
	Size() int

	// IsEmpty 检查队列是否为空
	IsEmpty() bool

	// Close 关闭队列
	Close() error

	// IsClosed 检查队列是否已关闭
	IsClosed() bool
}

type queueItem struct {
	jobUUID   string
	notBefore time.Time
}

// MemoryJobQueue 基于内存的作业队列实现。出队顺序为FIFO，
// 但退避未到期的作业会被跳过，直到notBefore过期。
type MemoryJobQueue struct {
	mu       sync.Mutex
	items    []queueItem
	index    map[string]struct{} // 去重
	capacity int
	closed   bool
	wake     chan struct{}
}

// NewMemoryJobQueue 创建内存作业队列
func NewMemoryJobQueue(capacity int) JobQueue {
	if capacity <= 0 {
		capacity = 1000 // 默认容量
	}
	return &MemoryJobQueue{
		items:    make([]queueItem, 0, capacity),
		index:    make(map[string]struct{}),
		capacity: capacity,
		wake:     make(chan struct{}, 1),
	}
}

// Enqueue 入队任务
func (q *MemoryJobQueue) Enqueue(ctx context.Context, jobUUID string) error {
	return q.push(jobUUID, time.Time{}, false)
}

// EnqueueFront 插队到队首
func (q *MemoryJobQueue) EnqueueFront(ctx context.Context, jobUUID string) error {
	return q.push(jobUUID, time.Time{}, true)
}

// EnqueueAfter 退避入队
func (q *MemoryJobQueue) EnqueueAfter(jobUUID string, notBefore time.Time) error {
	return q.push(jobUUID, notBefore, false)
}

func (q *MemoryJobQueue) push(jobUUID string, notBefore time.Time, front bool) error {
	if jobUUID == "" {
		return errors.New("job uuid cannot be empty")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if _, ok := q.index[jobUUID]; ok {
		// 已在队列中，幂等返回
		return nil
	}
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	item := queueItem{jobUUID: jobUUID, notBefore: notBefore}
	if front {
		q.items = append([]queueItem{item}, q.items...)
	} else {
		q.items = append(q.items, item)
	}
	q.index[jobUUID] = struct{}{}
	q.signal()
	return nil
}

func (q *MemoryJobQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// popEligible 弹出第一个退避已到期的作业。返回第二个值为下一次唤醒的等待时长。
func (q *MemoryJobQueue) popEligible(now time.Time) (string, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var nextWake time.Duration = -1
	for i, item := range q.items {
		if item.notBefore.After(now) {
			wait := item.notBefore.Sub(now)
			if nextWake < 0 || wait < nextWake {
				nextWake = wait
			}
			continue
		}
		q.items = append(q.items[:i], q.items[i+1:]...)
		delete(q.index, item.jobUUID)
		return item.jobUUID, 0
	}
	return "", nextWake
}

// Dequeue 出队任务（阻塞）
func (q *MemoryJobQueue) Dequeue(ctx context.Context) (string, error) {
	for {
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return "", ErrQueueClosed
		}

		jobUUID, nextWake := q.popEligible(time.Now())
		if jobUUID != "" {
			return jobUUID, nil
		}

		var timer *time.Timer
		var timeout <-chan time.Time
		if nextWake > 0 {
			timer = time.NewTimer(nextWake)
			timeout = timer.C
		}
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return "", ctx.Err()
		case <-q.wake:
		case <-timeout:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// TryDequeue 尝试出队任务（非阻塞）
func (q *MemoryJobQueue) TryDequeue() (string, bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return "", false
	}
	q.mu.Unlock()
	jobUUID, _ := q.popEligible(time.Now())
	return jobUUID, jobUUID != ""
}

// Remove 从队列移除指定作业
func (q *MemoryJobQueue) Remove(jobUUID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.index[jobUUID]; !ok {
		return false
	}
	for i, item := range q.items {
		if item.jobUUID == jobUUID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	delete(q.index, jobUUID)
	return true
}

// Contains 检查作业是否在队列中
func (q *MemoryJobQueue) Contains(jobUUID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.index[jobUUID]
	return ok
}

// Size 获取队列大小
func (q *MemoryJobQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty 检查队列是否为空
func (q *MemoryJobQueue) IsEmpty() bool {
	return q.Size() == 0
}

// Close 关闭队列
func (q *MemoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	q.items = nil
	q.index = make(map[string]struct{})
	close(q.wake)
	return nil
}

// IsClosed 检查队列是否已关闭
func (q *MemoryJobQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
