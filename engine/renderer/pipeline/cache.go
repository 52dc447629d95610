package pipeline

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUnsupportedFormat indicates no sampling/rendering pipeline can be
// built for the requested pixel format. Surfaced before any GPU work is
// issued; a failed request never stores a partial cache entry.
var ErrUnsupportedFormat = errors.New("pipeline: unsupported texture format")

//go:embed assets/mip_blit.wgsl
var mipBlitSource string

// cacheCapacity bounds the lru storage. The format space actually used by
// an engine is single digits, so eviction never fires in practice; the
// bound exists so program lifecycle stays owned by the cache.
const cacheCapacity = 64

// cache is the implementation of the Cache interface.
// Program construction is single-flight: the mutex serializes compiles so
// two concurrent requests for the same uncached format produce one program.
type cache struct {
	mu  *sync.Mutex
	ctx device.Context

	// label prefixes GPU resource labels for debugging.
	label string

	// source is the WGSL for the full-screen mip-blit pass.
	source string

	programs *lru.Cache[wgpu.TextureFormat, *shaderProgram]
}

// Cache compiles and memoizes one ShaderProgram per output pixel format.
// Programs are created on first request and cached for the lifetime of
// the cache; they must not be released by callers.
type Cache interface {
	// Program returns the cached ShaderProgram for the format, compiling
	// and storing it on first request. Compilation may suspend on the
	// underlying device but is synchronous from the caller's perspective.
	//
	// Parameters:
	//   - format: the output pixel format the program must target
	//
	// Returns:
	//   - ShaderProgram: the cached or newly compiled program
	//   - error: ErrUnsupportedFormat if no pipeline can target the format, device.ErrNotInitialized if the context is not ready
	Program(format wgpu.TextureFormat) (ShaderProgram, error)

	// Warmup pre-compiles programs for the given formats, avoiding
	// first-use compilation stalls during rendering.
	//
	// Parameters:
	//   - formats: the formats to compile ahead of time
	//
	// Returns:
	//   - error: the first compilation failure, or nil
	Warmup(formats ...wgpu.TextureFormat) error

	// Len returns the number of cached programs.
	//
	// Returns:
	//   - int: the cached program count
	Len() int

	// Release drops every cached program and its GPU handles.
	Release()
}

var _ Cache = &cache{}

func (c *cache) Program(format wgpu.TextureFormat) (ShaderProgram, error) {
	if !FormatSupported(format) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prog, ok := c.programs.Get(format); ok {
		return prog, nil
	}

	prog, err := c.compile(format)
	if err != nil {
		return nil, err
	}
	c.programs.Add(format, prog)

	return prog, nil
}

func (c *cache) Warmup(formats ...wgpu.TextureFormat) error {
	for _, format := range formats {
		if _, err := c.Program(format); err != nil {
			return fmt.Errorf("warmup %v: %w", format, err)
		}
	}
	return nil
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.programs.Len()
}

func (c *cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Purge fires the eviction callback for every entry.
	c.programs.Purge()
}

// compile builds the shader module and render pipeline for one output
// format. The pipeline layout is inferred from the shader (Layout nil),
// and the group 0 bind group layout is read back from the pipeline.
func (c *cache) compile(format wgpu.TextureFormat) (*shaderProgram, error) {
	dev, err := c.ctx.Device()
	if err != nil {
		return nil, err
	}

	module, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: c.label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: c.source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module: %w", err)
	}

	rp, err := dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("%s Pipeline (%v)", c.label, format),
		// Layout nil: bind group layouts are inferred from the shader.
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		module.Release()
		return nil, fmt.Errorf("failed to create render pipeline: %w", err)
	}

	return &shaderProgram{
		format:   format,
		module:   module,
		pipeline: rp,
		layout:   rp.GetBindGroupLayout(0),
	}, nil
}

// renderableFormats lists the color formats that support both filterable
// sampling and render-attachment use, the two capabilities the mip-blit
// pass requires.
var renderableFormats = map[wgpu.TextureFormat]bool{
	wgpu.TextureFormatR8Unorm:        true,
	wgpu.TextureFormatRG8Unorm:       true,
	wgpu.TextureFormatRGBA8Unorm:     true,
	wgpu.TextureFormatRGBA8UnormSrgb: true,
	wgpu.TextureFormatBGRA8Unorm:     true,
	wgpu.TextureFormatBGRA8UnormSrgb: true,
	wgpu.TextureFormatRGB10A2Unorm:   true,
	wgpu.TextureFormatR16Float:       true,
	wgpu.TextureFormatRG16Float:      true,
	wgpu.TextureFormatRGBA16Float:    true,
}

// FormatSupported reports whether a sampling/rendering pipeline can be
// built for the given format.
//
// Parameters:
//   - format: the format to check
//
// Returns:
//   - bool: true if the format can be both sampled with filtering and rendered to
func FormatSupported(format wgpu.TextureFormat) bool {
	return renderableFormats[format]
}

func releaseProgramOnEvict(_ wgpu.TextureFormat, prog *shaderProgram) {
	prog.release()
}
