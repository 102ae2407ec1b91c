package platform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"taskdeck/internal/infrastructure/errors"
)

const (
	// IconSize is the edge length of the surface icons are rendered into
	IconSize = 32

	// DataURLPrefix makes the encoded icon usable directly as an image source
	DataURLPrefix = "data:image/png;base64,"
)

// BGRAToRGBA converts a top-down 32-bit BGRA pixel buffer, as returned by
// GetDIBits, into a straight-alpha RGBA image.
//
// A zero alpha byte is read as fully opaque. Icons drawn without real
// transparency information come back from GDI with alpha 0 everywhere, and
// taking that literally would make them invisible. Icons carrying genuine
// alpha keep it unchanged; only the exact value 0 is rewritten.
func BGRAToRGBA(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid bitmap dimensions %dx%d", width, height)
	}

	count := width * height
	if len(pixels) < count*4 {
		return nil, fmt.Errorf("bitmap buffer too small: have %d bytes, need %d", len(pixels), count*4)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < count; i++ {
		src := pixels[i*4 : i*4+4 : i*4+4]
		dst := img.Pix[i*4 : i*4+4 : i*4+4]

		dst[0] = src[2] // R
		dst[1] = src[1] // G
		dst[2] = src[0] // B
		if src[3] == 0 {
			dst[3] = 0xff
		} else {
			dst[3] = src[3]
		}
	}

	return img, nil
}

// EncodeDataURL encodes img as PNG and wraps it in a base64 data URL
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.NewPlatformError("EncodeDataURL", err, errors.ErrCodeInternal)
	}

	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
