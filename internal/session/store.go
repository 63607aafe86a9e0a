package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the backing storage for sessions.  The Redis implementation is
// used in production; tests use the in-memory one.  Stores only persist
// and fetch; idle-timeout policy lives in the Manager.
type Store interface {
	Put(ctx context.Context, scope Scope, key string, s Session, ttl time.Duration) error
	Get(ctx context.Context, scope Scope, key string) (Session, bool, error)
	Delete(ctx context.Context, scope Scope, key string) error
}

// RedisStore keeps sessions in Redis under "sess:<scope>:<key>".  Entries
// carry a TTL equal to the idle timeout so abandoned sessions clean
// themselves up even though expiry is also checked lazily on access.
type RedisStore struct{ RDB *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{RDB: rdb} }

func redisKey(scope Scope, key string) string { return "sess:" + string(scope) + ":" + key }

func (r *RedisStore) Put(ctx context.Context, scope Scope, key string, s Session, ttl time.Duration) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, redisKey(scope, key), body, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, scope Scope, key string) (Session, bool, error) {
	body, err := r.RDB.Get(ctx, redisKey(scope, key)).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, scope Scope, key string) error {
	return r.RDB.Del(ctx, redisKey(scope, key)).Err()
}
