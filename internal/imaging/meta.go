package imaging

import (
	"context"
	"encoding/json"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// imageInfo is the image_info result payload.
type imageInfo struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	ColorDepth string `json:"color_depth"`
	HasAlpha   bool   `json:"has_alpha"`
	SizeBytes  int    `json:"size_bytes"`
}

// Info reports dimensions, detected format, color depth, and alpha presence.
func (o *Ops) Info(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	img, format, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	payload, err := json.Marshal(imageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
		SizeBytes:  len(data),
	})
	if err != nil {
		return nil, zerr.Wrap(domain.ErrHandlerFailed, err.Error())
	}

	return &domain.Result{
		Data:   payload,
		Format: "json",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// dominantColor is one entry of the dominant_colors payload.
type dominantColor struct {
	Hex   string  `json:"hex"`
	Ratio float64 `json:"ratio"`
}

// thumbSize bounds the sampling cost of color extraction.
const thumbSize = 64

// DominantColors returns the num_colors most frequent colors after
// quantization, with their pixel share.
func (o *Ops) DominantColors(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	data, err := requireOneImage(images)
	if err != nil {
		return nil, err
	}
	numColors, err := optionalInt(args, "num_colors", 5)
	if err != nil {
		return nil, err
	}
	if numColors < 1 || numColors > 16 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "num_colors must be in [1, 16]"), "num_colors", numColors)
	}

	img, _, err := Decode(data, o.maxDimension)
	if err != nil {
		return nil, err
	}

	// Sample a thumbnail; exact pixel counts are not the point here.
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Box)

	counts := make(map[[3]uint8]int)
	total := 0
	bounds := thumb.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(thumb.At(x, y))
			if !ok {
				// Fully transparent pixel.
				continue
			}
			r, g, b := c.RGB255()
			// Quantize to 32 levels per channel so near-identical shades
			// pool into one bucket.
			key := [3]uint8{r &^ 7, g &^ 7, b &^ 7}
			counts[key]++
			total++
		}
	}

	type bucket struct {
		key   [3]uint8
		count int
	}
	buckets := make([]bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, bucket{key: k, count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key[0] < buckets[j].key[0]
	})
	if len(buckets) > numColors {
		buckets = buckets[:numColors]
	}

	out := make([]dominantColor, len(buckets))
	for i, b := range buckets {
		c := colorful.Color{
			R: float64(b.key[0]) / 255,
			G: float64(b.key[1]) / 255,
			B: float64(b.key[2]) / 255,
		}
		out[i] = dominantColor{
			Hex:   c.Hex(),
			Ratio: float64(b.count) / float64(total),
		}
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrHandlerFailed, err.Error())
	}
	return &domain.Result{Data: payload, Format: "json"}, nil
}
