package surface

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampExtent(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		limit         uint32
		wantW, wantH  uint32
	}{
		{name: "within limits", width: 1024, height: 768, limit: 8192, wantW: 1024, wantH: 768},
		{name: "oversized width", width: 5000, height: 500, limit: 4096, wantW: 4096, wantH: 500},
		{name: "oversized both", width: 9000, height: 9000, limit: 8192, wantW: 8192, wantH: 8192},
		{name: "minimized window", width: 0, height: 0, limit: 8192, wantW: 1, wantH: 1},
		{name: "negative framebuffer", width: -5, height: 200, limit: 8192, wantW: 1, wantH: 200},
		{name: "unknown limit only floors", width: 100000, height: 0, limit: 0, wantW: 100000, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := clampExtent(tt.width, tt.height, tt.limit)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestPreferPremultiplied(t *testing.T) {
	got := preferPremultiplied([]wgpu.CompositeAlphaMode{
		wgpu.CompositeAlphaModeOpaque,
		wgpu.CompositeAlphaModePremultiplied,
	})
	assert.Equal(t, wgpu.CompositeAlphaModePremultiplied, got)

	got = preferPremultiplied([]wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque})
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, got)

	got = preferPremultiplied(nil)
	assert.Equal(t, wgpu.CompositeAlphaModeAuto, got)
}

func TestRequestResizeKeepsLatest(t *testing.T) {
	s := &presentationSurface{mu: &sync.Mutex{}, maxDimension: 4096}

	s.RequestResize(800, 600)
	s.RequestResize(5000, 5000)
	s.RequestResize(1920, 1080)

	require.NotNil(t, s.pending)
	assert.Equal(t, uint32(1920), s.pending.width)
	assert.Equal(t, uint32(1080), s.pending.height)
}

func TestRequestResizeClampsEagerly(t *testing.T) {
	s := &presentationSurface{mu: &sync.Mutex{}, maxDimension: 4096}

	s.RequestResize(5000, 0)

	require.NotNil(t, s.pending)
	assert.Equal(t, uint32(4096), s.pending.width)
	assert.Equal(t, uint32(1), s.pending.height)
}

func TestApplyPendingRequiresReady(t *testing.T) {
	s := &presentationSurface{mu: &sync.Mutex{}, maxDimension: 4096}
	s.RequestResize(800, 600)

	// Not bound yet; the request stays queued.
	assert.False(t, s.ApplyPending())
	assert.NotNil(t, s.pending)
}

func TestApplyPendingNoRequest(t *testing.T) {
	s := &presentationSurface{mu: &sync.Mutex{}, ready: true}
	assert.False(t, s.ApplyPending())
}

func TestSurfaceAccessorsBeforeInit(t *testing.T) {
	s := NewSurface(nil)
	assert.False(t, s.Ready())

	_, err := s.Format()
	assert.Error(t, err)

	_, err = s.AcquireFrame()
	assert.Error(t, err)
}

func TestSurfaceOnGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	win := window.NewWindow(
		window.WithTitle("Surface Test"),
		window.WithWidth(640),
		window.WithHeight(480),
	)
	defer win.Close()

	ctx := device.NewContext(device.WithForceFallbackAdapter(true))
	require.NoError(t, ctx.Init())
	defer ctx.Release()

	s := NewSurface(win)
	require.NoError(t, s.Init(ctx))
	defer s.Release()

	assert.True(t, s.Ready())
	format, err := s.Format()
	require.NoError(t, err)
	assert.NotZero(t, format)

	w, h := s.Size()
	assert.NotZero(t, w)
	assert.NotZero(t, h)

	var appliedW, appliedH uint32
	s.SetResizeCallback(func(width, height uint32) {
		appliedW, appliedH = width, height
	})
	s.RequestResize(800, 600)
	require.True(t, s.ApplyPending())
	assert.Equal(t, uint32(800), appliedW)
	assert.Equal(t, uint32(600), appliedH)

	frame, err := s.AcquireFrame()
	require.NoError(t, err)
	assert.NotNil(t, frame)
	s.Present()
}
