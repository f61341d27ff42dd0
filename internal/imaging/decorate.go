package imaging

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
	xdraw "golang.org/x/image/draw"
)

// Border frames the image with a solid border of the given width and color.
func (o *Ops) Border(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	width, err := optionalInt(args, "border_width", 10)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "border_width must be positive"), "border_width", width)
	}
	colorHex, err := optionalString(args, "border_color", "#000000")
	if err != nil {
		return nil, err
	}
	borderColor, err := parseHexColor(colorHex)
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
	canvas := imaging.New(bounds.Dx()+2*width, bounds.Dy()+2*width, borderColor)
	return newResult(imaging.Paste(canvas, img, image.Pt(width, width)), format)
}

// watermark anchor positions.
var watermarkAnchors = map[string]struct{ right, bottom, center bool }{
	"top-left":     {},
	"top-right":    {right: true},
	"bottom-left":  {bottom: true},
	"bottom-right": {right: true, bottom: true},
	"center":       {center: true},
}

// Watermark overlays the second input image onto the first. position picks
// an anchor corner (default bottom-right), opacity blends in [0,1], and
// scale shrinks the watermark relative to the base width.
func (o *Ops) Watermark(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	if len(images) != 2 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "watermark takes the base image and the watermark image"), "images", len(images))
	}
	position, err := optionalString(args, "position", "bottom-right")
	if err != nil {
		return nil, err
	}
	anchor, ok := watermarkAnchors[position]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "unknown watermark position"), "position", position)
	}
	opacity, err := optionalFloat(args, "opacity", 0.5)
	if err != nil {
		return nil, err
	}
	if opacity < 0 || opacity > 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "opacity must be in [0, 1]"), "opacity", opacity)
	}
	scale, err := optionalFloat(args, "scale", 0.25)
	if err != nil {
		return nil, err
	}
	if scale <= 0 || scale > 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "scale must be in (0, 1]"), "scale", scale)
	}
	margin, err := optionalInt(args, "margin", 10)
	if err != nil {
		return nil, err
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	base, _, err := Decode(images[0], o.maxDimension)
	if err != nil {
		return nil, err
	}
	mark, _, err := Decode(images[1], o.maxDimension)
	if err != nil {
		return nil, err
	}

	mark = scaleWatermark(base, mark, scale)

	bb, mb := base.Bounds(), mark.Bounds()
	var pt image.Point
	switch {
	case anchor.center:
		pt = image.Pt((bb.Dx()-mb.Dx())/2, (bb.Dy()-mb.Dy())/2)
	default:
		x, y := margin, margin
		if anchor.right {
			x = bb.Dx() - mb.Dx() - margin
		}
		if anchor.bottom {
			y = bb.Dy() - mb.Dy() - margin
		}
		pt = image.Pt(x, y)
	}

	return newResult(imaging.Overlay(base, mark, pt, opacity), format)
}

// scaleWatermark fits the watermark to scale * base width, preserving its
// aspect ratio. Uses a Catmull-Rom kernel for quality at small sizes.
func scaleWatermark(base, mark image.Image, scale float64) image.Image {
	targetW := int(float64(base.Bounds().Dx()) * scale)
	if targetW < 1 {
		targetW = 1
	}
	mb := mark.Bounds()
	if mb.Dx() <= targetW {
		return mark
	}
	targetH := mb.Dy() * targetW / mb.Dx()
	if targetH < 1 {
		targetH = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), mark, mb, xdraw.Over, nil)
	return dst
}
