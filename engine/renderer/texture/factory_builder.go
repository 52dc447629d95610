package texture

import (
	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/mipmap"
)

// FactoryBuilderOption is a functional option for configuring a Factory.
// Use the With* functions to create options.
type FactoryBuilderOption func(f *factory)

// WithMipGeneration sets the factory-wide default for mip chain
// generation on created textures.
//
// Parameters:
//   - enabled: if true (the default), textures get a full chain generated at creation
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithMipGeneration(enabled bool) FactoryBuilderOption {
	return func(f *factory) {
		f.generateMips = enabled
	}
}

// WithDecodeWorkers sets the number of workers decoding images in LoadAll.
// Values <= 0 are treated as the default (4).
//
// Parameters:
//   - workers: the decode worker count
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithDecodeWorkers(workers int) FactoryBuilderOption {
	return func(f *factory) {
		if workers > 0 {
			f.decodeWorkers = workers
		}
	}
}

// WithFactoryLabel sets the default debug label for textures created
// without one.
//
// Parameters:
//   - label: the label text
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithFactoryLabel(label string) FactoryBuilderOption {
	return func(f *factory) {
		f.label = label
	}
}

// NewFactory creates a new Factory bound to the given device context and
// mip generator. Applies default values first, then each option in order.
//
// Parameters:
//   - ctx: the device context textures are allocated against
//   - gen: the generator invoked for chain generation
//   - options: functional options to configure the factory
//
// Returns:
//   - Factory: the configured factory
func NewFactory(ctx device.Context, gen mipmap.Generator, options ...FactoryBuilderOption) Factory {
	f := &factory{
		ctx:           ctx,
		gen:           gen,
		generateMips:  true,
		decodeWorkers: 4,
		label:         "Texture",
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}
