package pipeline

import (
	"sync"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheBuilderOption is a functional option for configuring a Cache.
// Use the With* functions to create options.
type CacheBuilderOption func(c *cache)

// WithCacheLabel sets the prefix used for GPU resource labels created by
// the cache.
//
// Parameters:
//   - label: the label prefix text
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithCacheLabel(label string) CacheBuilderOption {
	return func(c *cache) {
		c.label = label
	}
}

// WithShaderSource overrides the embedded mip-blit WGSL source. The
// replacement must keep the vs_main/fs_main entry points and the
// group 0 sampler + texture bindings.
//
// Parameters:
//   - source: the WGSL source text
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithShaderSource(source string) CacheBuilderOption {
	return func(c *cache) {
		c.source = source
	}
}

// NewCache creates a new Cache bound to the given device context.
// Applies default values first, then each option in order. No GPU work
// happens until the first Program request.
//
// Parameters:
//   - ctx: the device context programs are compiled against
//   - options: functional options to configure the cache
//
// Returns:
//   - Cache: the configured cache
func NewCache(ctx device.Context, options ...CacheBuilderOption) Cache {
	c := &cache{
		mu:     &sync.Mutex{},
		ctx:    ctx,
		label:  "Mip Blit",
		source: mipBlitSource,
	}
	for _, opt := range options {
		opt(c)
	}
	// Capacity is fixed; the error path only fires for size <= 0.
	c.programs, _ = lru.NewWithEvict[wgpu.TextureFormat, *shaderProgram](cacheCapacity, releaseProgramOnEvict)
	return c
}
