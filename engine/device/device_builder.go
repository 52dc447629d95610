package device

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ContextBuilderOption is a functional option for configuring a Context.
// Use the With* functions to create options.
type ContextBuilderOption func(c *deviceContext)

// WithLabel sets the debug label attached to the wgpu device.
//
// Parameters:
//   - label: the device label text
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithLabel(label string) ContextBuilderOption {
	return func(c *deviceContext) {
		c.label = label
	}
}

// WithForceFallbackAdapter forces selection of a software fallback adapter.
// Overrides the WGPU_FORCE_FALLBACK_ADAPTER environment toggle.
//
// Parameters:
//   - force: if true, request a fallback adapter
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) ContextBuilderOption {
	return func(c *deviceContext) {
		c.forceFallbackAdapter = force
	}
}

// WithCompatibleSurface constrains adapter selection to one that can
// present to the given surface.
//
// Parameters:
//   - surface: the surface the adapter must be compatible with
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithCompatibleSurface(surface *wgpu.Surface) ContextBuilderOption {
	return func(c *deviceContext) {
		c.compatibleSurface = surface
	}
}

// WithRequiredLimits overrides the WebGPU default limits requested at
// device creation.
//
// Parameters:
//   - limits: the limits to require from the device
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithRequiredLimits(limits wgpu.Limits) ContextBuilderOption {
	return func(c *deviceContext) {
		c.requiredLimits = &limits
	}
}

// NewContext creates a new Context with the specified options.
// Applies default values first, then each option in order. The returned
// context holds no GPU handles until Init is called.
//
// Parameters:
//   - options: functional options to configure the context
//
// Returns:
//   - Context: the configured context (not yet initialized)
func NewContext(options ...ContextBuilderOption) Context {
	c := &deviceContext{
		mu:                   &sync.Mutex{},
		label:                "Main Device",
		forceFallbackAdapter: forceFallbackFromEnv(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
