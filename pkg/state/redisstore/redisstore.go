// Package redisstore keeps style option values in Redis, one JSON record per
// entity and option.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/state"
	"github.com/redis/go-redis/v9"
)

// Store implements state.Store on a redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key. The default is "styleopts:".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires records after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New returns a Store on client with the "styleopts:" prefix and no TTL.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: "styleopts:"}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the redis key used for ref.
func (s *Store) Key(ref state.Ref) (string, error) {
	id, err := ref.Identifier()
	if err != nil {
		return "", err
	}
	return s.prefix + id, nil
}

// Load implements state.Store. A missing key is reported as not found.
func (s *Store) Load(ctx context.Context, ref state.Ref) (styleopts.Value, state.Meta, bool, error) {
	key, err := s.Key(ref)
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, state.Meta{}, false, nil
	}
	if err != nil {
		return nil, state.Meta{}, false, fmt.Errorf("redisstore: get %s: %w", key, err)
	}
	value, meta, err := state.Decode(data)
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	return value, meta, true, nil
}

// Save implements state.Store.
func (s *Store) Save(ctx context.Context, ref state.Ref, value styleopts.Value, meta state.Meta) (state.Meta, error) {
	key, err := s.Key(ref)
	if err != nil {
		return state.Meta{}, err
	}
	data, err := state.Encode(value, meta)
	if err != nil {
		return state.Meta{}, err
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return state.Meta{}, fmt.Errorf("redisstore: set %s: %w", key, err)
	}
	return meta, nil
}
