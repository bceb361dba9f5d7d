package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/mentor/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.LessonCache using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for cached lessons.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached lessons.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "mentor:lesson:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(topicID string) string {
	return s.prefix + topicID
}

// Get retrieves a lesson from Redis.
func (s *Store) Get(ctx context.Context, topicID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(topicID)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set stores a lesson with the configured TTL (0 keeps it forever).
func (s *Store) Set(ctx context.Context, topicID string, lesson string) error {
	if err := s.client.Set(ctx, s.key(topicID), lesson, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes a cached lesson.
func (s *Store) Delete(ctx context.Context, topicID string) error {
	return s.client.Del(ctx, s.key(topicID)).Err()
}
