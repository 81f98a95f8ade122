// Package rediskv keeps key-value entries in a redis database.
//
// Keys are namespaced with a prefix. Writes are announced on a pub/sub
// channel so that other processes sharing the database can watch them.
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/aretw0/jot/pkg/kv"
)

const (
	// DefaultPrefix namespaces every key.
	DefaultPrefix = "jot:"

	// lockTTL bounds how long a crashed writer can hold the lock.
	lockTTL   = 10 * time.Second
	lockRetry = 10 * time.Millisecond
)

// unlockScript deletes the lock only when it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Config holds the connection settings.
type Config struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
	Logger      *slog.Logger
}

// Store implements kv.Store on redis.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger

	mu       sync.Mutex
	writes   int
	watchers int
}

// New connects to redis. An unreachable server yields kv.ErrUnavailable so
// callers can degrade instead of failing.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  -1,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		if cfg.Logger != nil {
			cfg.Logger.Warn("redis unreachable", "addr", cfg.Addr, "error", err)
		}
		return nil, fmt.Errorf("%w: redis at %s: %v", kv.ErrUnavailable, cfg.Addr, err)
	}

	return &Store{client: client, prefix: cfg.Prefix, logger: cfg.Logger}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", kv.ErrNotFound, key)
	}
	if err != nil {
		return nil, s.wrap("get", key, err)
	}
	return data, nil
}

// Set overwrites the value stored under key and announces the change.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return s.wrap("set", key, err)
	}
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.publish(ctx, kv.ChangeSet, key)
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return s.wrap("remove", key, err)
	}
	if n > 0 {
		s.publish(ctx, kv.ChangeRemove, key)
	}
	return nil
}

// Lock takes a lease shared by every process using this database.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	lockKey := s.prefix + "lock"
	token := uuid.NewString()

	for {
		ok, err := s.client.SetNX(ctx, lockKey, token, lockTTL).Result()
		if err != nil {
			return nil, s.wrap("lock", lockKey, err)
		}
		if ok {
			return func() {
				if err := unlockScript.Run(context.Background(), s.client, []string{lockKey}, token).Err(); err != nil && s.logger != nil {
					s.logger.Warn("failed to release redis lock", "error", err)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", lockKey, ctx.Err())
		case <-time.After(lockRetry):
		}
	}
}

// Watch subscribes to changes of key made through any Store sharing the
// same database and prefix. The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context, key string) (<-chan kv.Change, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, s.wrap("subscribe", s.channel(), err)
	}

	out := make(chan kv.Change)
	s.mu.Lock()
	s.watchers++
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer func() {
			s.mu.Lock()
			s.watchers--
			s.mu.Unlock()
		}()
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}
				change, ok := parseChange(msg.Payload)
				if !ok || change.Key != key {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.logger != nil {
			s.logger.Error("redis watcher stopped", "error", err)
		}
	}))

	return out, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) channel() string {
	return s.prefix + "changes"
}

func (s *Store) publish(ctx context.Context, t kv.ChangeType, key string) {
	if err := s.client.Publish(ctx, s.channel(), string(t)+":"+key).Err(); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish change", "key", key, "error", err)
	}
}

func parseChange(payload string) (kv.Change, bool) {
	t, key, ok := strings.Cut(payload, ":")
	if !ok {
		return kv.Change{}, false
	}
	switch kv.ChangeType(t) {
	case kv.ChangeSet, kv.ChangeRemove:
		return kv.Change{Key: key, Type: kv.ChangeType(t)}, true
	}
	return kv.Change{}, false
}

// wrap maps connection failures to kv.ErrUnavailable.
func (s *Store) wrap(op, key string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("failed to %s %s: %w: %v", op, key, kv.ErrUnavailable, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, key, err)
}

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Locker  = (*Store)(nil)
	_ kv.Watcher = (*Store)(nil)
)
