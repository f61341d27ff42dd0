// Package imaging implements the image operation handlers registered with
// the dispatch registry: geometric transforms, color adjustments, filters,
// effects, and metadata extraction. Handlers are pure functions over in-memory
// image bytes; all I/O stays in the protocol layer.
package imaging

import (
	"bytes"
	"image"
	"image/color"

	_ "image/gif" // register GIF decoder

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

const jpegQuality = 95

// Decode parses raw image bytes and enforces the dimension cap. The returned
// format is the detected source format ("png", "jpeg", ...).
func Decode(data []byte, maxDimension int) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", zerr.Wrap(domain.ErrImageDecodeFailed, err.Error())
	}

	bounds := img.Bounds()
	if maxDimension > 0 && (bounds.Dx() > maxDimension || bounds.Dy() > maxDimension) {
		err := zerr.With(domain.ErrImageTooLarge, "width", bounds.Dx())
		err = zerr.With(err, "height", bounds.Dy())
		return nil, "", zerr.With(err, "max_dimension", maxDimension)
	}

	return img, format, nil
}

// Encode renders img in the given output format ("png" or "jpeg").
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	case "jpeg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "unsupported output format"), "format", format)
	}
	if err != nil {
		return nil, zerr.Wrap(domain.ErrImageEncodeFailed, err.Error())
	}
	return buf.Bytes(), nil
}

// newResult encodes img and packages it as an operation result.
func newResult(img image.Image, format string) (*domain.Result, error) {
	data, err := Encode(img, format)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &domain.Result{
		Data:   data,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// parseHexColor parses "#rrggbb" (or "#rgb") into a color.
func parseHexColor(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "invalid hex color"), "color", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
