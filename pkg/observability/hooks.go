// Package observability provides hooks for metrics and tracing.
//
// The engine and the export pipeline report what they do through small hook
// interfaces instead of importing a metrics backend. Consumers register hooks
// at startup; everything defaults to a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetExportHooks(&myExportHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	sim.Step()
//	observability.Engine().OnTick(sim.Alpha(), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from a running topology engine. Calls happen on
// the engine's control thread and must not block.
type EngineHooks interface {
	// OnMutation records a Mutation API call. nodes and links are the live
	// counts after the call; err is the rejection, if any.
	OnMutation(op string, nodes, links int, err error)

	// OnTick records one simulation tick.
	OnTick(alpha float64, duration time.Duration)

	// OnModeChange records an interaction mode transition.
	OnModeChange(from, to string)

	// OnReject records a link-draw gesture whose insertion was refused.
	OnReject(code string)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from headless layout and rendering.
type ExportHooks interface {
	// OnLayoutComplete records a batch layout run.
	OnLayoutComplete(ctx context.Context, ticks int, duration time.Duration, err error)

	// OnRenderComplete records one rendered output.
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnMutation(string, int, int, error) {}
func (NoopEngineHooks) OnTick(float64, time.Duration)      {}
func (NoopEngineHooks) OnModeChange(string, string)        {}
func (NoopEngineHooks) OnReject(string)                    {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}
func (NoopExportHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	exportHooks ExportHooks = NoopExportHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine is built.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetExportHooks registers custom export hooks.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	exportHooks = NoopExportHooks{}
}
