package common

import (
	"image"
	"image/draw"
)

// TextureStagingData holds decoded RGBA8 pixel data ready to be handed to a renderer backend.
// Rows are stored bottom-up, the order OpenGL expects for texture coordinate (0,0) at the
// lower-left corner.
type TextureStagingData struct {
	// Pixels contains tightly packed RGBA8 pixel data.
	Pixels []byte

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32
}

// StagingFromImage copies an image into RGBA8 staging data without reordering rows.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - TextureStagingData: the packed pixel data and dimensions
func StagingFromImage(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// CheckerImage builds a two-color checkerboard, used when no ground texture file is configured.
//
// Parameters:
//   - size: width and height in pixels
//   - cells: number of cells per side
//   - a, b: the two cell colors as RGBA8
//
// Returns:
//   - *image.RGBA: the generated image
func CheckerImage(size, cells int, a, b [4]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if cells <= 0 {
		cells = 1
	}
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if ((x/cell)+(y/cell))%2 == 1 {
				c = b
			}
			i := img.PixOffset(x, y)
			copy(img.Pix[i:i+4], c[:])
		}
	}
	return img
}
