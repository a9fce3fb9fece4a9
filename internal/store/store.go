// Package store defines the ephemeral key-value contract that backs all
// OTP, rate-limit and token-blacklist state. Two implementations exist
// with identical observable semantics: Redis for multi-instance
// deployments and Memory for single-node or offline operation. Callers
// never observe raw expiry timestamps, only presence or absence; expiry
// is enforced lazily at read time.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or has expired.
// The two cases are indistinguishable by contract.
var ErrNotFound = errors.New("key not found")

// Store is the ephemeral key-value contract. IncrementWithTTL is the
// only operation callers may rely on for atomicity under concurrent
// access to the same key.
type Store interface {
	// Get returns the value for key, or ErrNotFound when the key is
	// absent or past its TTL.
	Get(ctx context.Context, key string) (string, error)

	// SetWithTTL stores value under key, overwriting any previous value
	// and TTL.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// IncrementWithTTL atomically increments the integer counter at key,
	// creating it at 1. The TTL is attached only when this increment
	// created the key; later increments leave the existing expiry
	// untouched, so a counter window is never extended by repeated hits.
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// SetTTL attaches or overwrites the TTL on an existing key. No-op
	// when the key is absent.
	SetTTL(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes the given keys. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, keys ...string) error
}
