package engine

import (
	"time"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/surface"
	"github.com/Carmen-Shannon/forge-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often the profiler logs statistics when
// profiling is enabled. Values <= 0 are treated as the default (1 second).
//
// Parameters:
//   - interval: minimum duration between profiler log lines
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler.SetInterval(interval)
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather
// than allowing the engine to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithDeviceContext sets a custom device context for the engine to initialize
// rather than building one internally during Init.
//
// Parameters:
//   - ctx: a pre-configured device.Context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDeviceContext(ctx device.Context) EngineBuilderOption {
	return func(e *engine) {
		e.ctx = ctx
	}
}

// WithSurface sets a custom presentation surface for the engine to bind
// rather than building one internally during Init.
//
// Parameters:
//   - s: a pre-configured surface.Surface
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s surface.Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
