package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: byte(x), G: byte(y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeEmbedded(t *testing.T) {
	tex := &ImportedTexture{
		Name:     "test",
		Data:     encodePNG(t, 4, 3),
		MimeType: "image/png",
	}

	staging, err := tex.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), staging.Width)
	assert.Equal(t, uint32(3), staging.Height)
	assert.Len(t, staging.Pixels, 4*3*4)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 3, tex.Height)

	// Pixel (2, 1) carries its coordinates in the R and G channels.
	i := (1*4 + 2) * 4
	assert.Equal(t, byte(2), staging.Pixels[i])
	assert.Equal(t, byte(1), staging.Pixels[i+1])
	assert.Equal(t, byte(255), staging.Pixels[i+3])
}

func TestDecodeEmptySource(t *testing.T) {
	tex := &ImportedTexture{Name: "empty"}
	_, err := tex.Decode()
	assert.Error(t, err)
}

func TestDecodeCorruptData(t *testing.T) {
	tex := &ImportedTexture{Name: "bad", Data: []byte("not an image")}
	_, err := tex.Decode()
	assert.Error(t, err)
}

func TestDecodeNil(t *testing.T) {
	var tex *ImportedTexture
	_, err := tex.Decode()
	assert.Error(t, err)
}
