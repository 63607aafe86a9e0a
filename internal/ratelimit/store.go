package ratelimit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists attempt entries keyed by scope and client IP.  Writes
// carry a TTL equal to the lockout duration so entries that would be
// swept anyway simply age out.
type Store interface {
	Get(ctx context.Context, scope Scope, ip string) (Entry, bool, error)
	Put(ctx context.Context, scope Scope, ip string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, scope Scope, ip string) error
	// Sweep removes every entry in the scope whose last attempt precedes
	// the cutoff.  Implementations backed by TTL-capable stores may treat
	// this as a no-op.
	Sweep(ctx context.Context, scope Scope, cutoff time.Time) error
}

// RedisStore keeps entries under "<prefix>:<scope>:<ip>".  Redis key TTLs
// implement the stale-entry purge, so Sweep does nothing.
type RedisStore struct {
	RDB    *redis.Client
	Prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisStore{RDB: rdb, Prefix: prefix}
}

func (r *RedisStore) key(scope Scope, ip string) string {
	return r.Prefix + ":" + string(scope) + ":" + ip
}

func (r *RedisStore) Get(ctx context.Context, scope Scope, ip string) (Entry, bool, error) {
	body, err := r.RDB.Get(ctx, r.key(scope, ip)).Bytes()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (r *RedisStore) Put(ctx context.Context, scope Scope, ip string, e Entry, ttl time.Duration) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, r.key(scope, ip), body, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, scope Scope, ip string) error {
	return r.RDB.Del(ctx, r.key(scope, ip)).Err()
}

func (r *RedisStore) Sweep(context.Context, Scope, time.Time) error { return nil }
