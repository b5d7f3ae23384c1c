package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// verifyScript compares and deletes in one round trip so two concurrent
// verifications cannot both succeed.
var verifyScript = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
  return 0
end
if code == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
local n = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
if n >= tonumber(ARGV[2]) then
  redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisStore shares pending codes between server instances.
type RedisStore struct {
	rdb         *redis.Client
	ttl         time.Duration
	maxAttempts int
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, maxAttempts int) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, maxAttempts: maxAttempts}
}

func (s *RedisStore) Put(ctx context.Context, email, code string) error {
	key := keyPrefix + normalize(email)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, "code", code, "attempts", 0)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Verify(ctx context.Context, email, code string) (bool, error) {
	n, err := verifyScript.Run(ctx, s.rdb, []string{keyPrefix + normalize(email)}, code, s.maxAttempts).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, keyPrefix+normalize(email)).Err()
}
