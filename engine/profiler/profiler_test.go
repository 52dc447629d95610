package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickBeforeInterval(t *testing.T) {
	p := NewProfiler()
	assert.False(t, p.Tick())
}

func TestTickAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.Tick())
	// The window resets after logging.
	assert.False(t, p.Tick())
}

func TestSetIntervalDefaults(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)

	p.SetInterval(-time.Minute)
	assert.Equal(t, time.Second, p.updateInterval)

	p.SetInterval(30 * time.Second)
	assert.Equal(t, 30*time.Second, p.updateInterval)
}
