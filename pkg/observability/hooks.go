// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about structure mutations, registry
// activity, and layout computation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core packages free of any observability
// framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSandboxHooks(&mySandboxHooks{})
//	    observability.SetRegistryHooks(&myRegistryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Registry().OnIssue(ctx, kind)
package observability

import (
	"context"
	"sync"
	"time"
)

// SandboxHooks receives events from structure and graph mutations.
type SandboxHooks interface {
	// OnMutation records a completed mutation (insert, detach, reattach,
	// delete, reset) on the named structure.
	OnMutation(ctx context.Context, structure, op string)

	// OnRouteQuery records a shortest-path query and its result size.
	OnRouteQuery(ctx context.Context, src, dst string, hops int)

	// OnLayout records a layout pass over n vertices.
	OnLayout(ctx context.Context, vertices int, duration time.Duration)
}

// RegistryHooks receives events from the detached-fragment registry.
type RegistryHooks interface {
	// OnIssue records a fragment registration.
	OnIssue(ctx context.Context, kind string)

	// OnWithdraw records an exactly-once token consumption.
	OnWithdraw(ctx context.Context, kind string)

	// OnExpire records a token dropped by TTL expiry.
	OnExpire(ctx context.Context, kind string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSandboxHooks is a no-op implementation of SandboxHooks.
type NoopSandboxHooks struct{}

func (NoopSandboxHooks) OnMutation(context.Context, string, string)        {}
func (NoopSandboxHooks) OnRouteQuery(context.Context, string, string, int) {}
func (NoopSandboxHooks) OnLayout(context.Context, int, time.Duration)      {}

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnIssue(context.Context, string)    {}
func (NoopRegistryHooks) OnWithdraw(context.Context, string) {}
func (NoopRegistryHooks) OnExpire(context.Context, string)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sandboxHooks  SandboxHooks  = NoopSandboxHooks{}
	registryHooks RegistryHooks = NoopRegistryHooks{}
	hooksMu       sync.RWMutex
)

// SetSandboxHooks registers custom sandbox hooks.
// This should be called once at application startup before any operations.
func SetSandboxHooks(h SandboxHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sandboxHooks = h
	}
}

// SetRegistryHooks registers custom registry hooks.
// This should be called once at application startup before any operations.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// Sandbox returns the registered sandbox hooks.
func Sandbox() SandboxHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sandboxHooks
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sandboxHooks = NoopSandboxHooks{}
	registryHooks = NoopRegistryHooks{}
}
