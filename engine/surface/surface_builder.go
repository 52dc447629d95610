package surface

import (
	"sync"

	"github.com/Carmen-Shannon/forge-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type SurfaceBuilderOption func(*presentationSurface)

// WithPresentMode overrides the presentation mode. The default is Fifo,
// which every platform supports.
//
// Parameters:
//   - mode: the wgpu.PresentMode to configure the surface with
//
// Returns:
//   - SurfaceBuilderOption: the option to be applied in the builder
func WithPresentMode(mode wgpu.PresentMode) SurfaceBuilderOption {
	return func(s *presentationSurface) {
		s.presentMode = mode
	}
}

// NewSurface creates a new Surface bound to the given window. The surface
// is inert until Init is called with a ready device context.
//
// Parameters:
//   - win: the window providing the platform surface descriptor
//   - options: optional SurfaceBuilderOption functions
//
// Returns:
//   - Surface: the new Surface
func NewSurface(win window.Window, options ...SurfaceBuilderOption) Surface {
	s := &presentationSurface{
		mu:          &sync.Mutex{},
		win:         win,
		presentMode: wgpu.PresentModeFifo,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}
