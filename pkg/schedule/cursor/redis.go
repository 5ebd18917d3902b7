package cursor

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/cronik/pkg/common/validation"
)

// DefaultPrefix is prepended to every key a RedisStore writes.
const DefaultPrefix = "cronik:cursor:"

// RedisConfig holds configuration for a RedisStore.
type RedisConfig struct {
	// Client is the Redis connection. It is not closed by the store.
	Client redis.UniversalClient

	// Prefix is prepended to every key (default: "cronik:cursor:")
	Prefix string

	// Timeout bounds every Redis call (default: 1s)
	Timeout time.Duration

	// TTL expires checkpoints that are not refreshed. Zero keeps them forever.
	TTL time.Duration
}

// RedisStore is a Store that keeps checkpoints in Redis as Unix nanoseconds,
// so several processes may share them.
type RedisStore struct {
	config     RedisConfig
	saveScript *redis.Script
}

var _ Store = (*RedisStore)(nil)

// luaSaveIfLater stores ARGV[1] unless the key already holds a later or
// equal instant. ARGV[2] is the TTL in milliseconds, 0 for none.
const luaSaveIfLater = `
local current = redis.call('GET', KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`

// NewRedisStore creates a RedisStore.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	if config.Client == nil {
		return nil, validation.ValidateNotNil("cursor", "Client", nil)
	}
	if config.Timeout < 0 {
		return nil, validation.ValidateNonNegative("cursor", "Timeout", int(config.Timeout))
	}
	if config.TTL < 0 {
		return nil, validation.ValidateNonNegative("cursor", "TTL", int(config.TTL))
	}
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Timeout == 0 {
		config.Timeout = time.Second
	}

	return &RedisStore{
		config:     config,
		saveScript: redis.NewScript(luaSaveIfLater),
	}, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, key string) (time.Time, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	raw, err := s.config.Client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, &RedisError{"load", err}
	}

	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, &RedisError{"load", err}
	}
	return time.Unix(0, nanos), true, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, t time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	err := s.saveScript.Run(ctx, s.config.Client,
		[]string{s.key(key)},
		t.UnixNano(),
		s.config.TTL.Milliseconds(),
	).Err()
	if err != nil {
		return &RedisError{"save", err}
	}
	return nil
}

// Delete removes the checkpoint for key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.config.Client.Del(ctx, s.key(key)).Err(); err != nil {
		return &RedisError{"delete", err}
	}
	return nil
}

func (s *RedisStore) key(key string) string {
	return s.config.Prefix + key
}

// RedisError represents a Redis operation error.
type RedisError struct {
	Operation string
	Err       error
}

func (e *RedisError) Error() string {
	return "redis error in " + e.Operation + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}
