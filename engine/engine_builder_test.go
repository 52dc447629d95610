package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/forge-go/engine/profiler"
	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	e := &engine{profiler: profiler.NewProfiler()}

	WithProfiling(true)(e)
	WithProfilerInterval(30 * time.Second)(e)
	WithTickRate(120)(e)
	WithRenderFrameLimit(30)(e)

	assert.True(t, e.profilingEnabled)
	assert.Equal(t, time.Second/120, e.engineTickRate)
	assert.Equal(t, time.Second/30, e.renderFrameLimit)
	// A long interval means the very next tick cannot log.
	assert.False(t, e.profiler.Tick())
}

func TestBuilderOptionDefaults(t *testing.T) {
	e := &engine{profiler: profiler.NewProfiler()}

	WithTickRate(0)(e)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	WithRenderFrameLimit(0)(e)
	assert.Zero(t, e.renderFrameLimit)
}
