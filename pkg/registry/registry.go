// Package registry implements the detached-fragment registry: a
// token-addressed store mapping a single-use opaque token to a detached
// fragment plus its originating kind. Withdrawal is exactly-once: a token
// consumed by reattachment is immediately invalidated.
//
// Storage backends implement the Store interface:
//   - memory: in-process map, the default
//   - redis: shared store with native TTL, for multi-instance deployments
//
// Unconsumed tokens would otherwise accumulate forever, so the registry
// bounds retention with a configurable TTL (DefaultTTL). A TTL of zero
// keeps tokens for the life of the store.
package registry

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/observability"
	"github.com/structlab/structlab/pkg/structure"
)

// DefaultTTL bounds how long an unconsumed token is retained.
const DefaultTTL = 24 * time.Hour

// Fragment is the tagged variant stored under a token. Structural
// fragments (general and binary trees) carry the detached subtree and are
// grafted back as-is; value fragments (BST) carry only the contained keys,
// which reattachment reinserts individually.
type Fragment struct {
	Kind structure.Kind  `json:"kind"`
	Root *structure.Node `json:"root,omitempty"`
	Keys []int           `json:"keys,omitempty"`
}

// IsValue reports whether the fragment carries values rather than
// structure.
func (f Fragment) IsValue() bool { return f.Kind == structure.KindBST }

// Store is the interface for fragment storage backends.
type Store interface {
	// Put stores a fragment under token. A positive ttl bounds retention;
	// zero keeps the entry for the life of the store.
	Put(ctx context.Context, token string, frag Fragment, ttl time.Duration) error

	// Get retrieves a fragment without consuming the token.
	// Returns false if the token is absent or expired.
	Get(ctx context.Context, token string) (Fragment, bool, error)

	// Remove atomically removes and returns the fragment.
	// Returns false if the token is absent, expired, or already consumed.
	Remove(ctx context.Context, token string) (Fragment, bool, error)

	// Cleanup drops expired entries (may be a no-op for TTL-native backends).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Registry issues and redeems single-use fragment tokens.
type Registry struct {
	store Store
	ttl   time.Duration
}

// New creates a registry over the given store. A nil store gets a private
// in-memory one. A negative ttl is treated as DefaultTTL; zero disables
// expiry.
func New(store Store, ttl time.Duration) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl < 0 {
		ttl = DefaultTTL
	}
	return &Registry{store: store, ttl: ttl}
}

// Issue registers a fragment and returns its freshly generated token.
// The token is unique among outstanding tokens.
func (r *Registry) Issue(ctx context.Context, frag Fragment) (string, error) {
	u := uuid.New()
	token := hex.EncodeToString(u[:])
	if err := r.store.Put(ctx, token, frag, r.ttl); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "register fragment")
	}
	observability.Registry().OnIssue(ctx, string(frag.Kind))
	return token, nil
}

// Peek returns the fragment for token without consuming it. Used to
// validate a reattachment target before the token is spent, so a failed
// reattach leaves the fragment registered for a retry.
func (r *Registry) Peek(ctx context.Context, token string) (Fragment, error) {
	frag, ok, err := r.store.Get(ctx, token)
	if err != nil {
		return Fragment{}, errors.Wrap(errors.ErrCodeInternal, err, "read fragment")
	}
	if !ok {
		return Fragment{}, errors.New(errors.ErrCodeTokenNotFound, "token %q not found", token)
	}
	return frag, nil
}

// Withdraw atomically removes and returns the fragment for token.
// A stale or already-consumed token yields ErrCodeTokenNotFound.
func (r *Registry) Withdraw(ctx context.Context, token string) (Fragment, error) {
	frag, ok, err := r.store.Remove(ctx, token)
	if err != nil {
		return Fragment{}, errors.Wrap(errors.ErrCodeInternal, err, "withdraw fragment")
	}
	if !ok {
		return Fragment{}, errors.New(errors.ErrCodeTokenNotFound, "token %q not found", token)
	}
	observability.Registry().OnWithdraw(ctx, string(frag.Kind))
	return frag, nil
}

// Cleanup drops expired entries from the backing store.
func (r *Registry) Cleanup(ctx context.Context) error {
	return r.store.Cleanup(ctx)
}

// Close releases the backing store.
func (r *Registry) Close() error {
	return r.store.Close()
}
