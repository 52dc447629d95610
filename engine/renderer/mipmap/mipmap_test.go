package mipmap

import (
	"testing"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelCount(t *testing.T) {
	tests := []struct {
		name   string
		dims   []uint32
		want   uint32
		errMsg error
	}{
		{name: "1x1", dims: []uint32{1, 1}, want: 1},
		{name: "2x2", dims: []uint32{2, 2}, want: 2},
		{name: "256x256", dims: []uint32{256, 256}, want: 9},
		{name: "non power of two", dims: []uint32{300, 150}, want: 9},
		{name: "wide strip", dims: []uint32{1024, 1}, want: 11},
		{name: "single dimension", dims: []uint32{4096}, want: 13},
		{name: "zero dimension", dims: []uint32{0, 256}, errMsg: ErrBadDimensions},
		{name: "no dimensions", dims: nil, errMsg: ErrBadDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LevelCount(tt.dims...)
			if tt.errMsg != nil {
				assert.ErrorIs(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelCountMonotonic(t *testing.T) {
	// Growing the largest dimension never shrinks the chain.
	prev := uint32(0)
	for dim := uint32(1); dim <= 1<<14; dim *= 2 {
		levels, err := LevelCount(dim, dim)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, levels, prev)
		prev = levels
	}
}

func TestChainPlanSquare(t *testing.T) {
	passes := chainPlan(256, 256, 9)
	require.Len(t, passes, 8)

	for i, p := range passes {
		k := uint32(i + 1)
		assert.Equal(t, k-1, p.srcLevel)
		assert.Equal(t, k, p.dstLevel)
		assert.Equal(t, uint32(256)>>k, p.width)
		assert.Equal(t, uint32(256)>>k, p.height)
	}

	last := passes[len(passes)-1]
	assert.Equal(t, uint32(1), last.width)
	assert.Equal(t, uint32(1), last.height)
}

func TestChainPlanNonSquare(t *testing.T) {
	// The narrow axis clamps at 1 while the wide axis keeps halving.
	passes := chainPlan(8, 2, 4)
	require.Len(t, passes, 3)
	assert.Equal(t, uint32(4), passes[0].width)
	assert.Equal(t, uint32(1), passes[0].height)
	assert.Equal(t, uint32(2), passes[1].width)
	assert.Equal(t, uint32(1), passes[1].height)
	assert.Equal(t, uint32(1), passes[2].width)
	assert.Equal(t, uint32(1), passes[2].height)
}

func TestChainPlanStopsAtOneByOne(t *testing.T) {
	// A generous level count never plans past the 1x1 level.
	passes := chainPlan(16, 16, 100)
	assert.Len(t, passes, 4)
}

func TestChainPlanLevelBound(t *testing.T) {
	// The level count bound can stop the chain before dimensions collapse.
	passes := chainPlan(256, 256, 3)
	require.Len(t, passes, 2)
	assert.Equal(t, uint32(64), passes[1].width)
}

func TestChainPlanDegenerate(t *testing.T) {
	assert.Nil(t, chainPlan(256, 256, 0))
	assert.Nil(t, chainPlan(256, 256, 1))
	assert.Nil(t, chainPlan(0, 256, 9))
	assert.Nil(t, chainPlan(1, 1, 5))
}

func TestHalveClampsAtOne(t *testing.T) {
	assert.Equal(t, uint32(1), halve(1))
	assert.Equal(t, uint32(1), halve(0))
	assert.Equal(t, uint32(2), halve(5))
}

func TestCompletedSubmission(t *testing.T) {
	s := completedSubmission()
	assert.True(t, s.Done())
	// Wait on an already-complete token must not block or panic.
	s.Wait()
	assert.True(t, s.Done())
}

func TestNilSubmission(t *testing.T) {
	var s *Submission
	assert.True(t, s.Done())
	s.Wait()
}

func TestGenerateOnGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	ctx := device.NewContext(device.WithForceFallbackAdapter(true))
	require.NoError(t, ctx.Init())
	defer ctx.Release()

	dev, err := ctx.Device()
	require.NoError(t, err)

	tex, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Chain Test",
		Size:          wgpu.Extent3D{Width: 256, Height: 256, DepthOrArrayLayers: 1},
		MipLevelCount: 9,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageRenderAttachment,
	})
	require.NoError(t, err)
	defer tex.Release()

	programs := pipeline.NewCache(ctx)
	defer programs.Release()
	gen := NewGenerator(ctx, programs)
	defer gen.Release()

	levels, sub, err := gen.Generate(Target{
		Texture: tex,
		Width:   256,
		Height:  256,
		Format:  wgpu.TextureFormatRGBA8Unorm,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), levels)

	require.NotNil(t, sub)
	sub.Wait()
	assert.True(t, sub.Done())

	// A 1x1 target has nothing to generate and completes immediately.
	one, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "One Pixel",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageRenderAttachment,
	})
	require.NoError(t, err)
	defer one.Release()

	levels, sub, err = gen.Generate(Target{Texture: one, Width: 1, Height: 1, Format: wgpu.TextureFormatRGBA8Unorm}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), levels)
	assert.True(t, sub.Done())
}
