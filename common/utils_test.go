package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, Coalesce(0, 5, 7))
	assert.Equal(t, "fallback", Coalesce("", "fallback"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, uint32(3), Coalesce[uint32](3, 9))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, uint32(1), Clamp[uint32](0, 1, 4096))
	assert.Equal(t, uint32(4096), Clamp[uint32](9000, 1, 4096))
	assert.Equal(t, uint32(1024), Clamp[uint32](1024, 1, 4096))
	assert.Equal(t, float32(-1), Clamp[float32](-5, -1, 1))
}
