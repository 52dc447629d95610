package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSupported(t *testing.T) {
	supported := []wgpu.TextureFormat{
		wgpu.TextureFormatR8Unorm,
		wgpu.TextureFormatRG8Unorm,
		wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureFormatRGBA8UnormSrgb,
		wgpu.TextureFormatBGRA8Unorm,
		wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatRGB10A2Unorm,
		wgpu.TextureFormatR16Float,
		wgpu.TextureFormatRG16Float,
		wgpu.TextureFormatRGBA16Float,
	}
	for _, format := range supported {
		assert.True(t, FormatSupported(format), "format %v", format)
	}

	unsupported := []wgpu.TextureFormat{
		wgpu.TextureFormatDepth24Plus,
		wgpu.TextureFormatDepth32Float,
		wgpu.TextureFormatBC1RGBAUnorm,
		wgpu.TextureFormatR32Uint,
		wgpu.TextureFormatUndefined,
	}
	for _, format := range unsupported {
		assert.False(t, FormatSupported(format), "format %v", format)
	}
}

func TestProgramRejectsUnsupportedFormat(t *testing.T) {
	// The format check runs before any GPU work, so no device is needed.
	c := NewCache(nil)
	program, err := c.Program(wgpu.TextureFormatDepth24Plus)
	assert.Nil(t, program)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, c.Len())
}

func TestWarmupRejectsUnsupportedFormat(t *testing.T) {
	c := NewCache(nil)
	err := c.Warmup(wgpu.TextureFormatBC1RGBAUnorm)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProgramIdentityOnGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	ctx := device.NewContext(device.WithForceFallbackAdapter(true))
	require.NoError(t, ctx.Init())
	defer ctx.Release()

	c := NewCache(ctx)
	defer c.Release()

	first, err := c.Program(wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	require.NotNil(t, first.Pipeline())
	require.NotNil(t, first.BindGroupLayout())

	// A second request for the same format returns the cached instance.
	second, err := c.Program(wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	// A different format compiles a distinct program.
	other, err := c.Program(wgpu.TextureFormatBGRA8Unorm)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, other.Format())
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Warmup(wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatR16Float))
	assert.Equal(t, 4, c.Len())
}
