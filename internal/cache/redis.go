package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// key names definition
const (
	SessionKey = "session:%s" // key of a session token -> user id mapping, '%s' is the token
)

func MakeSessionKey(token string) string {
	return fmt.Sprintf(SessionKey, token)
}

var ErrSessionNotFound = errors.New("session not found in cache")

// RedisCache is the session-token lookup cache. The database row on the
// user is the source of truth; the cache only short-circuits the
// token -> user id resolution on the hot path.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	client := redis.NewClient(
		&redis.Options{
			Addr:     url,
			Password: "",
			DB:       0,
		},
	)
	redisCache := &RedisCache{Client: client}

	return redisCache, nil
}

func (r *RedisCache) StoreSession(token string, userID uint, ttl time.Duration) error {
	key := MakeSessionKey(token)
	return r.Client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (r *RedisCache) GetSession(token string) (uint, error) {
	key := MakeSessionKey(token)
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (r *RedisCache) DeleteSession(token string) error {
	key := MakeSessionKey(token)
	return r.Client.Del(ctx, key).Err()
}

func (r *RedisCache) Close() error {
	return r.Client.Close()
}
