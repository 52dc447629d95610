package texture

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/forge-go/common"
	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/mipmap"
	"github.com/cogentcore/webgpu/wgpu"
)

// uploadAlignment is the WebGPU BytesPerRow alignment requirement for
// texture uploads.
const uploadAlignment = 256

// TextureSpec describes a texture to be created by the Factory.
type TextureSpec struct {
	// Label is attached to the GPU texture for debugging. Empty uses the
	// factory default.
	Label string

	// Width and Height are the base level extent in pixels.
	Width, Height uint32

	// Format is the texture storage format.
	Format wgpu.TextureFormat

	// Source holds the base level pixel data to upload, or nil to leave
	// level 0 unwritten (e.g. render targets).
	Source *common.TextureStagingData

	// Sampler holds staged sampler parameters for this texture. Nil uses
	// trilinear filtering with repeat addressing.
	Sampler *common.SamplerStagingData

	// SkipMips suppresses mip chain generation for this texture even when
	// the factory default enables it.
	SkipMips bool
}

// factory is the implementation of the Factory interface.
type factory struct {
	ctx device.Context
	gen mipmap.Generator

	// generateMips is the factory-wide default for chain generation.
	generateMips bool

	// decodeWorkers sizes the LoadAll decode pool.
	decodeWorkers int

	label string
}

// Factory allocates GPU textures with a precomputed mip chain length,
// uploads base level pixel data, and triggers chain generation. Creation
// returns as soon as the upload and generation submission are queued; GPU
// execution is observed through the texture's Pending token, not the
// return value.
type Factory interface {
	// CreateTexture allocates a texture with usage flags permitting
	// sampling, copy-destination, and render-attachment (the latter
	// required so mip generation can render into each level), uploads
	// the source pixels into level 0, and immediately submits mip
	// generation when the computed chain length exceeds 1.
	//
	// Parameters:
	//   - spec: the texture description
	//
	// Returns:
	//   - Texture: the created texture with generation already submitted
	//   - error: creation, upload, or pre-flight generation failures
	CreateTexture(spec TextureSpec) (Texture, error)

	// CreateFromImage decodes an imported image and creates a texture
	// from the result with the factory defaults.
	//
	// Parameters:
	//   - img: the imported image to decode and upload
	//   - format: the texture storage format
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: decode or creation failures
	CreateFromImage(img *common.ImportedTexture, format wgpu.TextureFormat) (Texture, error)

	// LoadAll decodes a batch of imported images concurrently and creates
	// a texture for each in input order on the single device queue.
	//
	// Parameters:
	//   - images: the imported images to decode and upload
	//   - format: the texture storage format applied to every image
	//
	// Returns:
	//   - []Texture: the created textures, indexed like the input
	//   - error: the first decode or creation failure
	LoadAll(images []*common.ImportedTexture, format wgpu.TextureFormat) ([]Texture, error)
}

var _ Factory = &factory{}

func (f *factory) CreateTexture(spec TextureSpec) (Texture, error) {
	if spec.Width == 0 || spec.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", mipmap.ErrBadDimensions, spec.Width, spec.Height)
	}

	dev, err := f.ctx.Device()
	if err != nil {
		return nil, err
	}
	queue, err := f.ctx.Queue()
	if err != nil {
		return nil, err
	}

	label := common.Coalesce(spec.Label, f.label)

	// Chain length is fixed here, at creation, and never recomputed.
	levels, err := mipmap.LevelCount(spec.Width, spec.Height)
	if err != nil {
		return nil, err
	}
	wantMips := f.generateMips && !spec.SkipMips
	if !wantMips {
		levels = 1
	}

	handle, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              spec.Width,
			Height:             spec.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        spec.Format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	t := &texture2D{
		label:  label,
		width:  spec.Width,
		height: spec.Height,
		format: spec.Format,
		levels: levels,
		handle: handle,
	}

	if spec.Source != nil {
		if uploadErr := f.uploadBaseLevel(queue, handle, spec); uploadErr != nil {
			t.Release()
			return nil, uploadErr
		}
	}

	t.view, err = handle.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create texture view for %q: %w", label, err)
	}

	t.levelViews = make([]*wgpu.TextureView, 0, levels)
	for i := uint32(0); i < levels; i++ {
		lv, viewErr := handle.CreateView(&wgpu.TextureViewDescriptor{
			Label:           fmt.Sprintf("%s Level %d", label, i),
			Format:          spec.Format,
			Dimension:       wgpu.TextureViewDimension2D,
			Aspect:          wgpu.TextureAspectAll,
			BaseMipLevel:    i,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: 1,
		})
		if viewErr != nil {
			t.Release()
			return nil, fmt.Errorf("failed to create level %d view for %q: %w", i, label, viewErr)
		}
		t.levelViews = append(t.levelViews, lv)
	}

	t.sampler, err = dev.CreateSampler(samplerDescriptor(label, spec.Sampler))
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create sampler for %q: %w", label, err)
	}

	if levels > 1 && spec.Source != nil {
		// Fire-and-forget: the submission token is stored on the texture
		// for callers that need to observe completion.
		_, sub, genErr := f.gen.Generate(mipmap.Target{
			Texture: handle,
			Width:   spec.Width,
			Height:  spec.Height,
			Format:  spec.Format,
		}, levels)
		if genErr != nil {
			t.Release()
			return nil, fmt.Errorf("mip generation for %q: %w", label, genErr)
		}
		t.pending = sub
	}

	return t, nil
}

func (f *factory) CreateFromImage(img *common.ImportedTexture, format wgpu.TextureFormat) (Texture, error) {
	staging, err := img.Decode()
	if err != nil {
		return nil, err
	}
	return f.CreateTexture(TextureSpec{
		Label:   img.Name,
		Width:   staging.Width,
		Height:  staging.Height,
		Format:  format,
		Source:  staging,
		Sampler: img.SamplerData,
	})
}

// uploadBaseLevel writes the staged pixels into mip level 0, padding each
// row out to the WebGPU 256-byte BytesPerRow alignment when needed.
func (f *factory) uploadBaseLevel(queue *wgpu.Queue, handle *wgpu.Texture, spec TextureSpec) error {
	src := spec.Source
	if uint32(len(src.Pixels)) < src.Width*src.Height*4 {
		return errors.New("texture: staging data shorter than width*height*4")
	}
	if src.Width != spec.Width || src.Height != spec.Height {
		return fmt.Errorf("texture: staging extent %dx%d does not match spec %dx%d",
			src.Width, src.Height, spec.Width, spec.Height)
	}

	upload, stride := alignRows(src.Pixels, src.Width, src.Height)

	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  handle,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		upload,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stride,
			RowsPerImage: src.Height,
		},
		&wgpu.Extent3D{
			Width:              src.Width,
			Height:             src.Height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// alignRows pads RGBA rows to the 256-byte upload alignment. Returns the
// original slice untouched when rows are already aligned.
func alignRows(pixels []byte, width, height uint32) ([]byte, uint32) {
	rowStride := width * 4
	paddedStride := (rowStride + uploadAlignment - 1) / uploadAlignment * uploadAlignment
	if rowStride == paddedStride {
		return pixels, rowStride
	}

	upload := make([]byte, paddedStride*height)
	for y := uint32(0); y < height; y++ {
		copy(upload[y*paddedStride:y*paddedStride+rowStride], pixels[y*rowStride:(y+1)*rowStride])
	}
	return upload, paddedStride
}
