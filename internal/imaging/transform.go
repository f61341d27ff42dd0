package imaging

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// Ops holds the configuration the handlers close over: the decode dimension
// cap, the batch size limit, and the default output format.
type Ops struct {
	maxDimension int
	maxBatch     int
	format       string
}

// NewOps builds the handler set from the effective configuration.
func NewOps(cfg domain.Config) *Ops {
	return &Ops{
		maxDimension: cfg.MaxDimension,
		maxBatch:     cfg.MaxBatchSize,
		format:       cfg.OutputFormat,
	}
}

// outputFormat resolves the per-call format override.
func (o *Ops) outputFormat(args domain.Args) (string, error) {
	format, err := optionalString(args, "format", o.format)
	if err != nil {
		return "", err
	}
	if format != "png" && format != "jpeg" {
		return "", zerr.With(zerr.Wrap(domain.ErrValidation, "unsupported output format"), "format", format)
	}
	return format, nil
}

var resampleFilters = map[string]imaging.ResampleFilter{
	"lanczos": imaging.Lanczos,
	"linear":  imaging.Linear,
	"nearest": imaging.NearestNeighbor,
	"box":     imaging.Box,
}

// Resize scales an image to width x height. With keep_aspect_ratio (the
// default) the image is fitted inside the box instead of stretched.
func (o *Ops) Resize(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	width, err := requireInt(args, "width")
	if err != nil {
		return nil, err
	}
	height, err := requireInt(args, "height")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrValidation, "dimensions must be positive"), "width", width), "height", height)
	}
	keepAspect, err := optionalBool(args, "keep_aspect_ratio", true)
	if err != nil {
		return nil, err
	}
	filterName, err := optionalString(args, "resample", "lanczos")
	if err != nil {
		return nil, err
	}
	filter, ok := resampleFilters[filterName]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "unknown resample filter"), "resample", filterName)
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}

	var out image.Image
	if keepAspect {
		out = imaging.Fit(img, width, height, filter)
	} else {
		out = imaging.Resize(img, width, height, filter)
	}
	return newResult(out, format)
}

// Crop cuts the rectangle (left, top)-(right, bottom) out of the image.
func (o *Ops) Crop(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	left, err := requireInt(args, "left")
	if err != nil {
		return nil, err
	}
	top, err := requireInt(args, "top")
	if err != nil {
		return nil, err
	}
	right, err := requireInt(args, "right")
	if err != nil {
		return nil, err
	}
	bottom, err := requireInt(args, "bottom")
	if err != nil {
		return nil, err
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rect := image.Rect(left, top, right, bottom)
	if rect.Empty() || !rect.In(bounds) {
		err := zerr.Wrap(domain.ErrValidation, "crop rectangle outside image bounds")
		err = zerr.With(err, "rect", rect.String())
		return nil, zerr.With(err, "bounds", bounds.String())
	}

	return newResult(imaging.Crop(img, rect), format)
}

// Rotate turns the image counter-clockwise by angle degrees, expanding the
// canvas and filling the corners with fill_color.
func (o *Ops) Rotate(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	angle, err := requireFloat(args, "angle")
	if err != nil {
		return nil, err
	}
	fill, err := optionalString(args, "fill_color", "#FFFFFF")
	if err != nil {
		return nil, err
	}
	bg, err := parseHexColor(fill)
	if err != nil {
		return nil, err
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}
	return newResult(imaging.Rotate(img, angle, bg), format)
}

// Flip mirrors the image. direction is "horizontal" or "vertical".
func (o *Ops) Flip(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	direction, err := requireString(args, "direction")
	if err != nil {
		return nil, err
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}

	switch direction {
	case "horizontal":
		return newResult(imaging.FlipH(img), format)
	case "vertical":
		return newResult(imaging.FlipV(img), format)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "direction must be horizontal or vertical"), "direction", direction)
	}
}
