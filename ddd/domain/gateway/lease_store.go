package gateway

import (
	"context"
	"time"
)

// LeaseStore 跨实例租约存储，保证同一视频同一时刻只有一个执行者
type LeaseStore interface {
	// Acquire 尝试获取租约，已被他人持有时返回false
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Renew 续租，仅持有者可续，返回是否成功
	Renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Release 释放租约，仅持有者可释放
	Release(ctx context.Context, key, owner string) error
}
