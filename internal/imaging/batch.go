package imaging

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// batchItem is one entry of the batch_resize payload.
type batchItem struct {
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"`
}

// BatchResize resizes every input image to the same box. The images are
// processed sequentially inside the one executor slot this task occupies, so
// a batch can never multiply the pool's concurrency. The result is a JSON
// array of base64-encoded outputs in input order.
func (o *Ops) BatchResize(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
	if len(images) == 0 {
		return nil, zerr.Wrap(domain.ErrValidation, "batch_resize needs at least one image")
	}
	if len(images) > o.maxBatch {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrValidation, "batch exceeds size limit"), "images", len(images)), "max_batch_size", o.maxBatch)
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
	format, err := o.outputFormat(args)
	if err != nil {
		return nil, err
	}

	items := make([]batchItem, 0, len(images))
	for i, data := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, _, err := Decode(data, o.maxDimension)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}

		var out = img
		if keepAspect {
			out = imaging.Fit(img, width, height, imaging.Lanczos)
		} else {
			out = imaging.Resize(img, width, height, imaging.Lanczos)
		}

		encoded, err := Encode(out, format)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		bounds := out.Bounds()
		items = append(items, batchItem{
			Index:  i,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Data:   base64.StdEncoding.EncodeToString(encoded),
		})
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrHandlerFailed, err.Error())
	}
	return &domain.Result{
		Data:   payload,
		Format: "json",
		Meta:   map[string]string{"count": strconv.Itoa(len(items))},
	}, nil
}
