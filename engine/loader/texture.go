package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/disintegration/gift"
	"github.com/h2non/filetype"
)

// flipRows mirrors an image vertically so row 0 of the staging data is the bottom row.
var flipRows = gift.New(gift.FlipVertical())

// DecodeTexture sniffs, decodes and flips an encoded image.
// Supported containers are PNG, JPEG and GIF.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - common.TextureStagingData: bottom-up RGBA8 pixels
//   - error: ErrUnsupportedFormat for non-image content, ErrMalformed for decode failures
func DecodeTexture(data []byte) (common.TextureStagingData, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return common.TextureStagingData{}, fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, kind.MIME.Value)
	}
	switch kind.Extension {
	case "png", "jpg", "gif":
	default:
		return common.TextureStagingData{}, fmt.Errorf("%w: image type %q", ErrUnsupportedFormat, kind.Extension)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return common.TextureStagingData{}, malformed("%s image: %v", kind.Extension, err)
	}
	dst := image.NewRGBA(flipRows.Bounds(src.Bounds()))
	flipRows.Draw(dst, src)
	return common.StagingFromImage(dst), nil
}

// LoadTexture reads and decodes an image file. Failures are returned as *LoadError.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - common.TextureStagingData: bottom-up RGBA8 pixels
//   - error: *LoadError on failure
func LoadTexture(path string) (common.TextureStagingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.TextureStagingData{}, &LoadError{Path: path, Err: err}
	}
	tex, err := DecodeTexture(data)
	if err != nil {
		return common.TextureStagingData{}, &LoadError{Path: path, Err: err}
	}
	return tex, nil
}
