package imaging

import (
	"context"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// Color adjustments take a PIL-style factor where 1.0 is identity; the
// imaging library wants a percentage delta, so factors convert as
// (factor-1)*100 clamped to [-100, 100].

func factorToPercent(factor float64) (float64, error) {
	if factor < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrValidation, "factor must not be negative"), "factor", factor)
	}
	p := (factor - 1) * 100
	if p > 100 {
		p = 100
	}
	if p < -100 {
		p = -100
	}
	return p, nil
}

func (o *Ops) adjust(args domain.Args, images [][]byte, apply func(img image.Image, percent float64) image.Image) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	factor, err := requireFloat(args, "factor")
	if err != nil {
		return nil, err
	}
	percent, err := factorToPercent(factor)
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
	return newResult(apply(img, percent), format)
}

// Brightness scales image brightness by factor (1.0 = unchanged).
func (o *Ops) Brightness(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.adjust(args, images, func(img image.Image, p float64) image.Image {
		return imaging.AdjustBrightness(img, p)
	})
}

// Contrast scales image contrast by factor (1.0 = unchanged).
func (o *Ops) Contrast(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.adjust(args, images, func(img image.Image, p float64) image.Image {
		return imaging.AdjustContrast(img, p)
	})
}

// Saturation scales color saturation by factor (1.0 = unchanged).
func (o *Ops) Saturation(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.adjust(args, images, func(img image.Image, p float64) image.Image {
		return imaging.AdjustSaturation(img, p)
	})
}

// Gamma applies gamma correction. gamma must be positive; 1.0 is identity.
func (o *Ops) Gamma(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	gamma, err := requireFloat(args, "gamma")
	if err != nil {
		return nil, err
	}
	if gamma <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "gamma must be positive"), "gamma", gamma)
	}
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}
	return newResult(imaging.AdjustGamma(img, gamma), format)
}

// Grayscale converts the image to grayscale.
func (o *Ops) Grayscale(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.simple(args, images, func(img image.Image) image.Image {
		return imaging.Grayscale(img)
	})
}

// Invert produces the color negative.
func (o *Ops) Invert(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.simple(args, images, func(img image.Image) image.Image {
		return imaging.Invert(img)
	})
}

// Sepia applies a sepia tone.
func (o *Ops) Sepia(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	return o.simple(args, images, func(img image.Image) image.Image {
		return effect.Sepia(img)
	})
}

// simple runs a parameterless whole-image transform.
func (o *Ops) simple(args domain.Args, images [][]byte, apply func(img image.Image) image.Image) (*domain.Result, error) {
	data, err := requireOneImage(images)
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
	return newResult(apply(img), format)
}
