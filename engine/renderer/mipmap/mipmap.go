package mipmap

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrBadDimensions indicates a level count was requested for an empty
// dimension list or a zero-sized axis.
var ErrBadDimensions = errors.New("mipmap: dimensions must be positive")

// LevelCount returns the full mip chain length for the given dimensions:
// floor(1 + log2(max(dims))). A texture whose largest axis is 1 has a
// single base level and no mipmaps.
//
// Parameters:
//   - dims: one or more texture dimensions in pixels
//
// Returns:
//   - uint32: the chain length including the base level
//   - error: ErrBadDimensions if dims is empty or any dimension is 0
func LevelCount(dims ...uint32) (uint32, error) {
	if len(dims) == 0 {
		return 0, ErrBadDimensions
	}
	max := uint32(0)
	for _, d := range dims {
		if d == 0 {
			return 0, ErrBadDimensions
		}
		if d > max {
			max = d
		}
	}
	// bits.Len32(max) == floor(log2(max)) + 1 for max >= 1.
	return uint32(bits.Len32(max)), nil
}

// Target identifies the texture a Generate call downsamples. Level 0 of
// the texture must already hold valid pixel data, and the texture must
// have been created with render-attachment usage so each level can be
// written by a render pass.
type Target struct {
	// Texture is the GPU texture whose chain is generated.
	Texture *wgpu.Texture
	// Width and Height are the base level (level 0) extent in pixels.
	Width, Height uint32
	// Format is the texture's pixel format.
	Format wgpu.TextureFormat
}

// generator is the implementation of the Generator interface.
// One linear clamp-to-edge sampler is created lazily per generator and
// reused across all levels and all textures.
type generator struct {
	mu       *sync.Mutex
	ctx      device.Context
	programs pipeline.Cache

	// label prefixes GPU resource labels for debugging.
	label string

	sampler *wgpu.Sampler
}

// Generator derives mip chains on the GPU: for a texture whose base level
// holds valid data, it renders each level into the next with a full-screen
// textured pass, batching every transition into a single queue submission.
type Generator interface {
	// Generate produces levels 1..levelCount-1 of the target by repeatedly
	// halving the previous level. A levelCount of 0 requests the default,
	// LevelCount(width, height). Generation stops early once both axes
	// collapse to 1, so the returned chain length may be shorter than
	// requested.
	//
	// All per-level passes are encoded into one command buffer and
	// submitted once; passes execute in encode order, so each level's
	// read of the previous level is complete before it runs.
	//
	// Parameters:
	//   - target: the texture to downsample; level 0 must hold valid data
	//   - levelCount: the requested chain length including the base level (0 = default)
	//
	// Returns:
	//   - uint32: the chain length actually produced, including the base level
	//   - *Submission: completion token for the submitted passes
	//   - error: pipeline.ErrUnsupportedFormat before any pass is issued if the format cannot be rendered, ErrBadDimensions for a zero extent
	Generate(target Target, levelCount uint32) (uint32, *Submission, error)

	// Release drops the shared sampler. Cached programs are owned by the
	// pipeline cache and are not touched.
	Release()
}

var _ Generator = &generator{}

func (g *generator) Generate(target Target, levelCount uint32) (uint32, *Submission, error) {
	if target.Texture == nil {
		return 0, nil, errors.New("mipmap: target texture is nil")
	}
	if target.Width == 0 || target.Height == 0 {
		return 0, nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, target.Width, target.Height)
	}

	if levelCount == 0 {
		// Error is unreachable here: both dimensions were checked above.
		levelCount, _ = LevelCount(target.Width, target.Height)
	}

	// Resolve the program before any pass is encoded. An unsupported
	// format fails here with no partial mutation of the target.
	prog, err := g.programs.Program(target.Format)
	if err != nil {
		return 0, nil, err
	}

	passes := chainPlan(target.Width, target.Height, levelCount)
	if len(passes) == 0 {
		return 1, completedSubmission(), nil
	}

	dev, err := g.ctx.Device()
	if err != nil {
		return 0, nil, err
	}
	queue, err := g.ctx.Queue()
	if err != nil {
		return 0, nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sampler, err := g.ensureSampler(dev)
	if err != nil {
		return 0, nil, err
	}

	encoder, err := dev.CreateCommandEncoder(nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	// Ephemeral per-pass resources, released once the batch is submitted.
	views := make([]*wgpu.TextureView, 0, len(passes)+1)
	groups := make([]*wgpu.BindGroup, 0, len(passes))
	defer func() {
		for _, bg := range groups {
			bg.Release()
		}
		for _, v := range views {
			v.Release()
		}
	}()

	srcView, err := g.levelView(target, 0)
	if err != nil {
		return 0, nil, err
	}
	views = append(views, srcView)

	for _, pass := range passes {
		dstView, viewErr := g.levelView(target, pass.dstLevel)
		if viewErr != nil {
			return 0, nil, viewErr
		}
		views = append(views, dstView)

		bindGroup, bgErr := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s Bind Group L%d", g.label, pass.dstLevel),
			Layout: prog.BindGroupLayout(),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Sampler: sampler},
				{Binding: 1, TextureView: srcView},
			},
		})
		if bgErr != nil {
			return 0, nil, fmt.Errorf("failed to create bind group for level %d: %w", pass.dstLevel, bgErr)
		}
		groups = append(groups, bindGroup)

		rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: fmt.Sprintf("%s Pass L%d->L%d", g.label, pass.srcLevel, pass.dstLevel),
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:    dstView,
					LoadOp:  wgpu.LoadOpClear,
					StoreOp: wgpu.StoreOpStore,
				},
			},
		})
		rp.SetPipeline(prog.Pipeline())
		rp.SetBindGroup(0, bindGroup, nil)
		rp.Draw(6, 1, 0, 0)
		rp.End()

		// The level just written is the source for the next transition.
		srcView = dstView
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to finish mip command buffer: %w", err)
	}
	queue.Submit(commandBuffer)
	commandBuffer.Release()

	return uint32(len(passes)) + 1, newSubmission(dev), nil
}

func (g *generator) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sampler != nil {
		g.sampler.Release()
		g.sampler = nil
	}
}

// ensureSampler lazily creates the shared linear sampler. Callers hold g.mu.
func (g *generator) ensureSampler(dev *wgpu.Device) (*wgpu.Sampler, error) {
	if g.sampler != nil {
		return g.sampler, nil
	}
	sampler, err := dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         g.label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mip sampler: %w", err)
	}
	g.sampler = sampler
	return sampler, nil
}

// levelView creates a view restricted to a single mip level of the target.
func (g *generator) levelView(target Target, level uint32) (*wgpu.TextureView, error) {
	view, err := target.Texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("%s Level %d", g.label, level),
		Format:          target.Format,
		Dimension:       wgpu.TextureViewDimension2D,
		Aspect:          wgpu.TextureAspectAll,
		BaseMipLevel:    level,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create level %d view: %w", level, err)
	}
	return view, nil
}
