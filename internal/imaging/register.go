package imaging

import (
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
)

// Schema fragments shared across operations.
func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

var imageProp = prop("string", "Base64-encoded input image")

func schema(required []string, props map[string]any) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var formatProp = prop("string", "Output format: png or jpeg")

// RegisterAll registers every imaging operation with the registry. The
// protocol layer advertises exactly this set through tools/list.
func (o *Ops) RegisterAll(reg ports.Registry) error {
	ops := []domain.Operation{
		{
			Name:        "resize",
			Handler:     o.Resize,
			Cacheable:   true,
			Description: "Resize an image to the given dimensions",
			InputSchema: schema([]string{"image", "width", "height"}, map[string]any{
				"image":             imageProp,
				"width":             prop("integer", "Target width in pixels"),
				"height":            prop("integer", "Target height in pixels"),
				"keep_aspect_ratio": prop("boolean", "Fit inside the box instead of stretching (default true)"),
				"resample":          prop("string", "Resample filter: lanczos, linear, nearest, box"),
				"format":            formatProp,
			}),
		},
		{
			Name:        "crop",
			Handler:     o.Crop,
			Cacheable:   true,
			Description: "Crop a rectangle out of an image",
			InputSchema: schema([]string{"image", "left", "top", "right", "bottom"}, map[string]any{
				"image":  imageProp,
				"left":   prop("integer", "Left edge in pixels"),
				"top":    prop("integer", "Top edge in pixels"),
				"right":  prop("integer", "Right edge in pixels (exclusive)"),
				"bottom": prop("integer", "Bottom edge in pixels (exclusive)"),
				"format": formatProp,
			}),
		},
		{
			Name:        "rotate",
			Handler:     o.Rotate,
			Cacheable:   true,
			Description: "Rotate an image counter-clockwise by an angle in degrees",
			InputSchema: schema([]string{"image", "angle"}, map[string]any{
				"image":      imageProp,
				"angle":      prop("number", "Rotation angle in degrees"),
				"fill_color": prop("string", "Hex fill color for exposed corners (default #FFFFFF)"),
				"format":     formatProp,
			}),
		},
		{
			Name:        "flip",
			Handler:     o.Flip,
			Cacheable:   true,
			Description: "Mirror an image horizontally or vertically",
			InputSchema: schema([]string{"image", "direction"}, map[string]any{
				"image":     imageProp,
				"direction": prop("string", "horizontal or vertical"),
				"format":    formatProp,
			}),
		},
		{
			Name:        "brightness",
			Handler:     o.Brightness,
			Cacheable:   true,
			Description: "Adjust brightness by a factor (1.0 = unchanged)",
			InputSchema: schema([]string{"image", "factor"}, map[string]any{
				"image":  imageProp,
				"factor": prop("number", "Brightness factor, 1.0 is identity"),
				"format": formatProp,
			}),
		},
		{
			Name:        "contrast",
			Handler:     o.Contrast,
			Cacheable:   true,
			Description: "Adjust contrast by a factor (1.0 = unchanged)",
			InputSchema: schema([]string{"image", "factor"}, map[string]any{
				"image":  imageProp,
				"factor": prop("number", "Contrast factor, 1.0 is identity"),
				"format": formatProp,
			}),
		},
		{
			Name:        "saturation",
			Handler:     o.Saturation,
			Cacheable:   true,
			Description: "Adjust color saturation by a factor (1.0 = unchanged)",
			InputSchema: schema([]string{"image", "factor"}, map[string]any{
				"image":  imageProp,
				"factor": prop("number", "Saturation factor, 1.0 is identity"),
				"format": formatProp,
			}),
		},
		{
			Name:        "gamma",
			Handler:     o.Gamma,
			Cacheable:   true,
			Description: "Apply gamma correction",
			InputSchema: schema([]string{"image", "gamma"}, map[string]any{
				"image":  imageProp,
				"gamma":  prop("number", "Gamma value, must be positive"),
				"format": formatProp,
			}),
		},
		{
			Name:        "grayscale",
			Handler:     o.Grayscale,
			Cacheable:   true,
			Description: "Convert an image to grayscale",
			InputSchema: schema([]string{"image"}, map[string]any{"image": imageProp, "format": formatProp}),
		},
		{
			Name:        "invert",
			Handler:     o.Invert,
			Cacheable:   true,
			Description: "Invert image colors",
			InputSchema: schema([]string{"image"}, map[string]any{"image": imageProp, "format": formatProp}),
		},
		{
			Name:        "sepia",
			Handler:     o.Sepia,
			Cacheable:   true,
			Description: "Apply a sepia tone",
			InputSchema: schema([]string{"image"}, map[string]any{"image": imageProp, "format": formatProp}),
		},
		{
			Name:        "blur",
			Handler:     o.Blur,
			Cacheable:   true,
			Description: "Apply a Gaussian blur",
			InputSchema: schema([]string{"image"}, map[string]any{
				"image":  imageProp,
				"radius": prop("number", "Blur radius (default 2.0)"),
				"format": formatProp,
			}),
		},
		{
			Name:        "sharpen",
			Handler:     o.Sharpen,
			Cacheable:   true,
			Description: "Sharpen an image",
			InputSchema: schema([]string{"image"}, map[string]any{
				"image":  imageProp,
				"sigma":  prop("number", "Sharpen sigma (default 1.0)"),
				"format": formatProp,
			}),
		},
		{
			Name:        "emboss",
			Handler:     o.Emboss,
			Cacheable:   true,
			Description: "Apply an emboss effect",
			InputSchema: schema([]string{"image"}, map[string]any{"image": imageProp, "format": formatProp}),
		},
		{
			Name:        "edge_detect",
			Handler:     o.EdgeDetect,
			Cacheable:   true,
			Description: "Highlight edges",
			InputSchema: schema([]string{"image"}, map[string]any{
				"image":  imageProp,
				"radius": prop("number", "Detection radius (default 1.0)"),
				"format": formatProp,
			}),
		},
		{
			Name:        "border",
			Handler:     o.Border,
			Cacheable:   true,
			Description: "Frame an image with a solid border",
			InputSchema: schema([]string{"image"}, map[string]any{
				"image":        imageProp,
				"border_width": prop("integer", "Border width in pixels (default 10)"),
				"border_color": prop("string", "Hex border color (default #000000)"),
				"format":       formatProp,
			}),
		},
		{
			Name:        "watermark",
			Handler:     o.Watermark,
			Cacheable:   true,
			Description: "Overlay a watermark image onto a base image",
			InputSchema: schema([]string{"image", "watermark"}, map[string]any{
				"image":     imageProp,
				"watermark": prop("string", "Base64-encoded watermark image"),
				"position":  prop("string", "Anchor: top-left, top-right, bottom-left, bottom-right, center"),
				"opacity":   prop("number", "Blend opacity in [0, 1] (default 0.5)"),
				"scale":     prop("number", "Watermark width relative to base width (default 0.25)"),
				"margin":    prop("integer", "Margin from the anchored edges (default 10)"),
				"format":    formatProp,
			}),
		},
		{
			Name:        "batch_resize",
			Handler:     o.BatchResize,
			Cacheable:   true,
			Description: "Resize a batch of images to the same dimensions",
			InputSchema: schema([]string{"images", "width", "height"}, map[string]any{
				"images":            prop("array", "Base64-encoded input images"),
				"width":             prop("integer", "Target width in pixels"),
				"height":            prop("integer", "Target height in pixels"),
				"keep_aspect_ratio": prop("boolean", "Fit inside the box instead of stretching (default true)"),
				"format":            formatProp,
			}),
		},
		{
			Name:        "image_info",
			Handler:     o.Info,
			Cacheable:   true,
			Description: "Report image dimensions, format, color depth, and alpha",
			InputSchema: schema([]string{"image"}, map[string]any{"image": imageProp}),
		},
		{
			Name:        "dominant_colors",
			Handler:     o.DominantColors,
			Cacheable:   true,
			Description: "Extract the most frequent colors of an image",
			InputSchema: schema([]string{"image"}, map[string]any{
				"image":      imageProp,
				"num_colors": prop("integer", "Number of colors to return, 1-16 (default 5)"),
			}),
		},
	}

	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}
