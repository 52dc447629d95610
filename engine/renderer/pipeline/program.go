package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// shaderProgram is the implementation of the ShaderProgram interface.
// It owns a compiled shader module, the render pipeline built from it for
// one output format, and the pipeline-inferred bind group layout.
type shaderProgram struct {
	format   wgpu.TextureFormat
	module   *wgpu.ShaderModule
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
}

// ShaderProgram is a compiled shader module plus the render pipeline
// targeting one output pixel format. The output format determines the
// pipeline's color target layout, so programs are not interchangeable
// across formats. Instances are exclusively owned by the Cache that
// compiled them and live for the lifetime of that cache.
type ShaderProgram interface {
	// Format returns the output pixel format this program targets.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	Format() wgpu.TextureFormat

	// Module returns the compiled shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModule: the shader module handle
	Module() *wgpu.ShaderModule

	// Pipeline returns the compiled render pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline handle
	Pipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the bind group layout inferred from the
	// pipeline for group 0 (sampler + source texture view).
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the group 0 layout handle
	BindGroupLayout() *wgpu.BindGroupLayout
}

var _ ShaderProgram = &shaderProgram{}

func (p *shaderProgram) Format() wgpu.TextureFormat {
	return p.format
}

func (p *shaderProgram) Module() *wgpu.ShaderModule {
	return p.module
}

func (p *shaderProgram) Pipeline() *wgpu.RenderPipeline {
	return p.pipeline
}

func (p *shaderProgram) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.layout
}

// release drops the program's GPU handles. Only the owning cache calls
// this, on eviction or shutdown.
func (p *shaderProgram) release() {
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
