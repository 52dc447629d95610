package mipmap

import (
	"sync"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/pipeline"
)

// GeneratorBuilderOption is a functional option for configuring a Generator.
// Use the With* functions to create options.
type GeneratorBuilderOption func(g *generator)

// WithGeneratorLabel sets the prefix used for GPU resource labels created
// by the generator.
//
// Parameters:
//   - label: the label prefix text
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithGeneratorLabel(label string) GeneratorBuilderOption {
	return func(g *generator) {
		g.label = label
	}
}

// NewGenerator creates a new Generator bound to the given device context
// and pipeline cache. Applies default values first, then each option in
// order. The shared sampler is created lazily on first Generate.
//
// Parameters:
//   - ctx: the device context GPU work is issued against
//   - programs: the cache supplying per-format blit programs
//   - options: functional options to configure the generator
//
// Returns:
//   - Generator: the configured generator
func NewGenerator(ctx device.Context, programs pipeline.Cache, options ...GeneratorBuilderOption) Generator {
	g := &generator{
		mu:       &sync.Mutex{},
		ctx:      ctx,
		programs: programs,
		label:    "Mip Chain",
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}
