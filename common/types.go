// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// This is the decoded-image handoff point between the loader layer and the texture factory.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero-valued fields are replaced with sensible defaults (linear filtering, repeat addressing) at creation time.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// ImportedTexture represents image data sourced from disk or an embedded byte stream.
// For embedded textures the Data field contains raw image bytes; otherwise Path names a file on disk.
type ImportedTexture struct {
	// Name is an identifier for this texture, used for GPU resource labels.
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// SamplerData holds GPU sampler parameters for this texture.
	// When non-nil, these values override the default linear/repeat settings.
	SamplerData *SamplerStagingData
}

// Decode decodes the texture to raw RGBA pixel data, staged for upload.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - *TextureStagingData: staged RGBA pixel data (4 bytes per pixel, row-major order)
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (*TextureStagingData, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return nil, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}
