package texture

import (
	"github.com/Carmen-Shannon/forge-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// samplerDescriptor builds a sampler descriptor from staged parameters,
// substituting linear filtering and repeat addressing for zero-valued
// fields. A nil staging struct yields the full default trilinear sampler.
func samplerDescriptor(label string, data *common.SamplerStagingData) *wgpu.SamplerDescriptor {
	staged := common.SamplerStagingData{}
	if data != nil {
		staged = *data
	}
	return &wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(staged.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staged.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staged.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staged.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staged.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staged.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staged.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staged.LodMaxClamp, 32.0),
		Compare:       staged.Compare,
		MaxAnisotropy: common.Coalesce(staged.MaxAnisotropy, 1),
	}
}
