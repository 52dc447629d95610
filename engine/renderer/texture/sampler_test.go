package texture

import (
	"testing"

	"github.com/Carmen-Shannon/forge-go/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestSamplerDescriptorDefaults(t *testing.T) {
	desc := samplerDescriptor("Grass", nil)

	assert.Equal(t, "Grass Sampler", desc.Label)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeV)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeW)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, desc.MipmapFilter)
	assert.Equal(t, float32(0), desc.LodMinClamp)
	assert.Equal(t, float32(32), desc.LodMaxClamp)
	assert.Equal(t, uint16(1), desc.MaxAnisotropy)
}

func TestSamplerDescriptorOverrides(t *testing.T) {
	desc := samplerDescriptor("Terrain", &common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		LodMaxClamp:   4,
		MaxAnisotropy: 8,
	})

	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeU)
	// Unset fields still take the defaults.
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeV)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MagFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, desc.MipmapFilter)
	assert.Equal(t, float32(4), desc.LodMaxClamp)
	assert.Equal(t, uint16(8), desc.MaxAnisotropy)
}
