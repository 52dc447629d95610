package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/forge-go/common"
	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurface indicates the platform window could not provide a surface
// descriptor.
var ErrNoSurface = errors.New("surface: window has no surface descriptor")

// pendingResize records the latest resize request. Resize events only
// write this record; the render loop applies it at frame start, so the
// surface is never reconfigured mid-frame.
type pendingResize struct {
	width  uint32
	height uint32
}

// presentationSurface is the implementation of the Surface interface.
type presentationSurface struct {
	mu *sync.Mutex

	win window.Window
	ctx device.Context

	surface *wgpu.Surface
	format  wgpu.TextureFormat
	alpha   wgpu.CompositeAlphaMode

	presentMode wgpu.PresentMode

	// width and height are the currently configured extent, already
	// clamped to [1, maxTextureDimension2D].
	width  uint32
	height uint32

	// maxDimension is the device limit resize requests clamp to.
	maxDimension uint32

	pending  *pendingResize
	onResize func(width, height uint32)

	// Frame state held between AcquireFrame and Present.
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView

	ready bool
}

// Surface binds a display target to the device: it selects the platform's
// preferred pixel format, configures premultiplied alpha blending, and
// reconfigures on size change. Independent of the mip generation hot path.
type Surface interface {
	// Init creates the wgpu surface from the window's platform descriptor,
	// resolves the preferred format, configures the surface at the current
	// (clamped) window size, and registers the window resize observer.
	//
	// Parameters:
	//   - ctx: the initialized device context to bind
	//
	// Returns:
	//   - error: device.ErrNotInitialized if ctx is not ready, ErrNoSurface if the window has no descriptor
	Init(ctx device.Context) error

	// Ready reports whether the surface is bound and its format resolved.
	//
	// Returns:
	//   - bool: true only after Init has succeeded
	Ready() bool

	// Format returns the resolved surface pixel format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the platform-preferred format
	//   - error: device.ErrNotInitialized if Init has not succeeded
	Format() (wgpu.TextureFormat, error)

	// Size returns the currently configured surface extent.
	//
	// Returns:
	//   - uint32: width in pixels
	//   - uint32: height in pixels
	Size() (uint32, uint32)

	// SetResizeCallback sets the function invoked after a pending resize
	// is applied, receiving the clamped extent.
	//
	// Parameters:
	//   - callback: function receiving the applied width and height
	SetResizeCallback(callback func(width, height uint32))

	// RequestResize records a resize request to be applied at the start
	// of the next frame. Requested dimensions are clamped to
	// [1, maxTextureDimension2D]; clamping is silent policy, not an
	// error. Only the latest request is kept.
	//
	// Parameters:
	//   - width: requested width in pixels
	//   - height: requested height in pixels
	RequestResize(width, height int)

	// ApplyPending applies at most one pending resize: reconfigures the
	// surface at the clamped extent and invokes the resize callback.
	// Call at frame start, before acquiring the frame texture.
	//
	// Returns:
	//   - bool: true if a pending resize was applied
	ApplyPending() bool

	// AcquireFrame acquires the next presentable texture and a view onto
	// it. Must be paired with Present.
	//
	// Returns:
	//   - *wgpu.TextureView: the frame's render target view
	//   - error: acquisition failures, or device.ErrNotInitialized before Init
	AcquireFrame() (*wgpu.TextureView, error)

	// Present presents the acquired frame and releases the held texture.
	Present()

	// Release drops the surface binding. The window stays open.
	Release()
}

var _ Surface = &presentationSurface{}

func (s *presentationSurface) Init(ctx device.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ctx.Ready() {
		return device.ErrNotInitialized
	}

	instance, err := ctx.Instance()
	if err != nil {
		return err
	}
	adapter, err := ctx.Adapter()
	if err != nil {
		return err
	}
	limits, err := ctx.Limits()
	if err != nil {
		return err
	}

	descriptor := s.win.SurfaceDescriptor()
	if descriptor == nil {
		return ErrNoSurface
	}

	s.ctx = ctx
	s.surface = instance.CreateSurface(descriptor)
	s.maxDimension = limits.MaxTextureDimension2D

	capabilities := s.surface.GetCapabilities(adapter)
	if len(capabilities.Formats) == 0 {
		return fmt.Errorf("surface: adapter reports no surface formats")
	}
	s.format = capabilities.Formats[0]
	s.alpha = preferPremultiplied(capabilities.AlphaModes)

	s.width, s.height = clampExtent(s.win.Width(), s.win.Height(), s.maxDimension)
	if err := s.configure(); err != nil {
		return err
	}

	// Resize events only record a pending request; the render loop applies
	// it at frame start via ApplyPending.
	s.win.SetResizeCallback(func(width, height int) {
		s.RequestResize(width, height)
	})

	s.ready = true
	return nil
}

func (s *presentationSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && s.surface != nil
}

func (s *presentationSurface) Format() (wgpu.TextureFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, device.ErrNotInitialized
	}
	return s.format, nil
}

func (s *presentationSurface) Size() (uint32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *presentationSurface) SetResizeCallback(callback func(width, height uint32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = callback
}

func (s *presentationSurface) RequestResize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := clampExtent(width, height, s.maxDimension)
	// Latest request wins; intermediate sizes are never applied.
	s.pending = &pendingResize{width: w, height: h}
}

func (s *presentationSurface) ApplyPending() bool {
	s.mu.Lock()

	if !s.ready || s.pending == nil {
		s.mu.Unlock()
		return false
	}

	p := s.pending
	s.pending = nil
	s.width = p.width
	s.height = p.height

	// Reconfigure failure leaves the previous configuration active; the
	// next pending request retries.
	_ = s.configure()

	callback := s.onResize
	s.mu.Unlock()

	if callback != nil {
		callback(p.width, p.height)
	}
	return true
}

func (s *presentationSurface) AcquireFrame() (*wgpu.TextureView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, device.ErrNotInitialized
	}
	if s.frameTexture != nil {
		return nil, fmt.Errorf("surface: previous frame not yet presented")
	}

	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create frame view: %w", err)
	}

	s.frameTexture = tex
	s.frameView = view
	return view, nil
}

func (s *presentationSurface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frameTexture == nil {
		return
	}

	s.surface.Present()

	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	s.frameTexture.Release()
	s.frameTexture = nil
}

func (s *presentationSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frameTexture != nil {
		s.frameTexture.Release()
		s.frameTexture = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
	s.ready = false
}

// configure (re)configures the surface at the current extent. Callers hold s.mu.
func (s *presentationSurface) configure() error {
	adapter, err := s.ctx.Adapter()
	if err != nil {
		return err
	}
	dev, err := s.ctx.Device()
	if err != nil {
		return err
	}

	s.surface.Configure(adapter, dev, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.format,
		Width:       s.width,
		Height:      s.height,
		PresentMode: s.presentMode,
		AlphaMode:   s.alpha,
	})
	return nil
}

// clampExtent constrains a requested extent to [1, limit] on both axes.
// A limit of 0 (unknown) only enforces the lower bound.
func clampExtent(width, height int, limit uint32) (uint32, uint32) {
	w := clampDim(width, limit)
	h := clampDim(height, limit)
	return w, h
}

func clampDim(dim int, limit uint32) uint32 {
	if limit == 0 {
		if dim < 1 {
			return 1
		}
		return uint32(dim)
	}
	return uint32(common.Clamp(dim, 1, int(limit)))
}

// preferPremultiplied selects premultiplied alpha when the platform offers
// it, falling back to the platform's first advertised mode.
func preferPremultiplied(modes []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	for _, mode := range modes {
		if mode == wgpu.CompositeAlphaModePremultiplied {
			return mode
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return wgpu.CompositeAlphaModeAuto
}
