package imaging

import (
	"context"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// Blur applies a Gaussian blur. radius maps to the blur sigma.
func (o *Ops) Blur(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	radius, err := optionalFloat(args, "radius", 2.0)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "radius must be positive"), "radius", radius)
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}
	return newResult(imaging.Blur(img, radius), format)
}

// Sharpen applies an unsharp mask. sigma defaults to 1.0.
func (o *Ops) Sharpen(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	sigma, err := optionalFloat(args, "sigma", 1.0)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "sigma must be positive"), "sigma", sigma)
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}
	return newResult(imaging.Sharpen(img, sigma), format)
}

// Emboss applies an emboss convolution.
func (o *Ops) Emboss(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.simple(args, images, func(img image.Image) image.Image {
		return effect.Emboss(img)
	})
}

// EdgeDetect highlights edges with a convolution of the given radius.
func (o *Ops) EdgeDetect(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	radius, err := optionalFloat(args, "radius", 1.0)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "radius must be positive"), "radius", radius)
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}
	return newResult(effect.EdgeDetection(img, radius), format)
}
