package lease

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"clipstream-service/ddd/domain/gateway"
)

// 校验持有者后续租/释放，避免误抢他人租约
const renewScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end`

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLeaseStore 基于Redis SET NX的跨实例租约实现
type RedisLeaseStore struct {
	client    *redis.Client
	keyPrefix string
	renewSha  *redis.Script
	relSha    *redis.Script
}

// NewRedisLeaseStore 创建Redis租约存储
func NewRedisLeaseStore(client *redis.Client, keyPrefix string) gateway.LeaseStore {
	if keyPrefix == "" {
		keyPrefix = "clipstream:lease:"
	}
	return &RedisLeaseStore{
		client:    client,
		keyPrefix: keyPrefix,
		renewSha:  redis.NewScript(renewScript),
		relSha:    redis.NewScript(releaseScript),
	}
}

// Acquire 尝试获取租约
func (s *RedisLeaseStore) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.keyPrefix+key, owner, ttl).Result()
}

// Renew 续租，仅持有者可续
func (s *RedisLeaseStore) Renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	res, err := s.renewSha.Run(ctx, s.client, []string{s.keyPrefix + key}, owner, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Release 释放租约，仅持有者可释放
func (s *RedisLeaseStore) Release(ctx context.Context, key, owner string) error {
	return s.relSha.Run(ctx, s.client, []string{s.keyPrefix + key}, owner).Err()
}
