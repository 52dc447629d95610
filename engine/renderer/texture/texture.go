package texture

import (
	"github.com/Carmen-Shannon/forge-go/engine/renderer/mipmap"
	"github.com/cogentcore/webgpu/wgpu"
)

// texture2D is the implementation of the Texture interface.
// Mip levels are views into the one underlying GPU allocation; they are
// released together by Release, never independently.
type texture2D struct {
	label  string
	width  uint32
	height uint32
	format wgpu.TextureFormat
	levels uint32

	handle     *wgpu.Texture
	view       *wgpu.TextureView
	levelViews []*wgpu.TextureView
	sampler    *wgpu.Sampler

	pending *mipmap.Submission
}

// Texture is a GPU-resident 2D image with a fixed extent, format, and mip
// chain length. The chain length is computed once at creation and never
// recomputed; level 0 is the uploaded base image and levels 1..N-1 are
// generated.
type Texture interface {
	// Label returns the debug label the texture was created with.
	//
	// Returns:
	//   - string: the label text
	Label() string

	// Width returns the base level width in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the base level height in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32

	// Format returns the texture's pixel format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the storage format
	Format() wgpu.TextureFormat

	// MipLevelCount returns the chain length fixed at creation time.
	//
	// Returns:
	//   - uint32: the number of mip levels including the base
	MipLevelCount() uint32

	// Handle returns the underlying GPU texture.
	//
	// Returns:
	//   - *wgpu.Texture: the texture handle
	Handle() *wgpu.Texture

	// View returns a view spanning the full mip chain, suitable for
	// binding with a mipmap-filtering sampler.
	//
	// Returns:
	//   - *wgpu.TextureView: the full-chain view
	View() *wgpu.TextureView

	// LevelView returns the view restricted to one mip level, or nil if
	// the level is out of range. Level views share the texture's
	// allocation and must not be released by callers.
	//
	// Parameters:
	//   - level: the mip level index (0 = base)
	//
	// Returns:
	//   - *wgpu.TextureView: the single-level view, or nil
	LevelView(level uint32) *wgpu.TextureView

	// Sampler returns the sampler created from the texture's staged
	// sampler parameters, suitable for binding alongside View. Owned by
	// the texture and released with it.
	//
	// Returns:
	//   - *wgpu.Sampler: the texture's sampler handle
	Sampler() *wgpu.Sampler

	// Pending returns the completion token for the mip generation batch
	// submitted at creation, or nil if no generation was performed.
	// Default callers may ignore it; completion is observed via the
	// device queue.
	//
	// Returns:
	//   - *mipmap.Submission: the pending generation token, or nil
	Pending() *mipmap.Submission

	// Release drops the sampler, all level views, the chain view, and
	// the texture.
	Release()
}

var _ Texture = &texture2D{}

func (t *texture2D) Label() string {
	return t.label
}

func (t *texture2D) Width() uint32 {
	return t.width
}

func (t *texture2D) Height() uint32 {
	return t.height
}

func (t *texture2D) Format() wgpu.TextureFormat {
	return t.format
}

func (t *texture2D) MipLevelCount() uint32 {
	return t.levels
}

func (t *texture2D) Handle() *wgpu.Texture {
	return t.handle
}

func (t *texture2D) View() *wgpu.TextureView {
	return t.view
}

func (t *texture2D) LevelView(level uint32) *wgpu.TextureView {
	if level >= uint32(len(t.levelViews)) {
		return nil
	}
	return t.levelViews[level]
}

func (t *texture2D) Sampler() *wgpu.Sampler {
	return t.sampler
}

func (t *texture2D) Pending() *mipmap.Submission {
	return t.pending
}

func (t *texture2D) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	for _, v := range t.levelViews {
		v.Release()
	}
	t.levelViews = nil
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.handle != nil {
		t.handle.Release()
		t.handle = nil
	}
}
