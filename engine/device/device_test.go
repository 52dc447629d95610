package device

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorsBeforeInit(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.Ready())

	_, err := ctx.Instance()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = ctx.Adapter()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = ctx.Device()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = ctx.Queue()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = ctx.Limits()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestReleaseBeforeInit(t *testing.T) {
	ctx := NewContext()
	// Release on an unused context is a no-op, not a crash.
	ctx.Release()
	assert.False(t, ctx.Ready())
}

func TestInitAfterFailureRejected(t *testing.T) {
	ctx := &deviceContext{mu: &sync.Mutex{}, state: stateFailed}
	err := ctx.Init()
	assert.ErrorIs(t, err, ErrNotInitialized)
	// The failed attempt's state is untouched; no second instance is created.
	assert.Nil(t, ctx.instance)
	assert.False(t, ctx.Ready())
}

func TestForceFallbackFromEnv(t *testing.T) {
	t.Setenv("WGPU_FORCE_FALLBACK_ADAPTER", "1")
	assert.True(t, forceFallbackFromEnv())

	t.Setenv("WGPU_FORCE_FALLBACK_ADAPTER", "0")
	assert.False(t, forceFallbackFromEnv())

	t.Setenv("WGPU_FORCE_FALLBACK_ADAPTER", "")
	assert.False(t, forceFallbackFromEnv())
}

func TestInitOnGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	ctx := NewContext(
		WithLabel("Test Device"),
		WithForceFallbackAdapter(true),
	)
	require.NoError(t, ctx.Init())
	defer ctx.Release()

	assert.True(t, ctx.Ready())
	// Init is idempotent once ready.
	require.NoError(t, ctx.Init())

	dev, err := ctx.Device()
	require.NoError(t, err)
	assert.NotNil(t, dev)

	queue, err := ctx.Queue()
	require.NoError(t, err)
	assert.NotNil(t, queue)

	limits, err := ctx.Limits()
	require.NoError(t, err)
	assert.NotZero(t, limits.MaxTextureDimension2D)
}
