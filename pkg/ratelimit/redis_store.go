package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, pttl_remaining]
const hitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

// RedisStore counts hits in Redis so every instance shares the same windows.
type RedisStore struct {
	client goredis.Scripter
	script *goredis.Script
}

func NewRedisStore(client goredis.Scripter) *RedisStore {
	return &RedisStore{
		client: client,
		script: goredis.NewScript(hitScript),
	}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	result, err := s.script.Run(ctx, s.client, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return Window{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return Window{}, fmt.Errorf("unexpected redis result format: %T", result)
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	resetAt := now.Add(time.Duration(ttl) * time.Millisecond)
	return Window{
		Start: resetAt.Add(-window),
		Count: int(count),
	}, nil
}
