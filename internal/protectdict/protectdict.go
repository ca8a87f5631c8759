// Package protectdict stores the curated protected-term set in Redis so
// multiple processing runs share one editable list.
package protectdict

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "protected_terms"

// Store wraps a Redis client holding protected terms in a set.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a store over the provided Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client, key: defaultKey}
}

// Open dials Redis at addr and returns a store over the connection.
func Open(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return New(client), nil
}

// Add inserts a term into the protected set.
func (s *Store) Add(ctx context.Context, term string) error {
	return s.client.SAdd(ctx, s.key, term).Err()
}

// Remove deletes a term from the protected set.
func (s *Store) Remove(ctx context.Context, term string) error {
	return s.client.SRem(ctx, s.key, term).Err()
}

// All returns every stored protected term.
func (s *Store) All(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.key).Result()
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}
