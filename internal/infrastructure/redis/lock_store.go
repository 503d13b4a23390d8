package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "payhook:lock:"

// unlockScript deletes the key only while it still holds the caller's owner
// token, so an expired-and-reacquired lock is never released by its old owner.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type LockStore struct {
	client goredis.UniversalClient
}

func NewLockStore(client goredis.UniversalClient) *LockStore {
	return &LockStore{client: client}
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *LockStore) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *LockStore) Unlock(ctx context.Context, key, owner string) error {
	if err := unlockScript.Run(ctx, s.client, []string{keyPrefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("redis unlock: %w", err)
	}
	return nil
}

func (s *LockStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
