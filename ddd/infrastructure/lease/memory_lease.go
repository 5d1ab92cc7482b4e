package lease

import (
	"context"
	"sync"
	"time"

	"clipstream-service/ddd/domain/gateway"
)

type memoryLease struct {
	owner     string
	expiresAt time.Time
}

// MemoryLeaseStore 单进程内存租约实现，用于单机部署与测试
type MemoryLeaseStore struct {
	mu     sync.Mutex
	leases map[string]memoryLease
}

// NewMemoryLeaseStore 创建内存租约存储
func NewMemoryLeaseStore() gateway.LeaseStore {
	return &MemoryLeaseStore{leases: make(map[string]memoryLease)}
}

// Acquire 尝试获取租约
func (s *MemoryLeaseStore) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if l, ok := s.leases[key]; ok && now.Before(l.expiresAt) && l.owner != owner {
		return false, nil
	}
	s.leases[key] = memoryLease{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

// Renew 续租，仅持有者可续
func (s *MemoryLeaseStore) Renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	l, ok := s.leases[key]
	if !ok || l.owner != owner || now.After(l.expiresAt) {
		return false, nil
	}
	s.leases[key] = memoryLease{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

// Release 释放租约，仅持有者可释放
func (s *MemoryLeaseStore) Release(ctx context.Context, key, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.leases[key]; ok && l.owner == owner {
		delete(s.leases, key)
	}
	return nil
}
