package imaging

import (
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// Argument extraction helpers. JSON decoding delivers every number as
// float64, so numeric accessors accept float64 and the integer types internal
// callers may pass.

func argNumber(args domain.Args, key string) (float64, bool, error) {
	v, ok := args[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	default:
		return 0, false, badArg(key, v)
	}
}

func requireInt(args domain.Args, key string) (int, error) {
	n, ok, err := argNumber(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, missingArg(key)
	}
	return int(n), nil
}

func optionalInt(args domain.Args, key string, def int) (int, error) {
	n, ok, err := argNumber(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return int(n), nil
}

func requireFloat(args domain.Args, key string) (float64, error) {
	n, ok, err := argNumber(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, missingArg(key)
	}
	return n, nil
}

func optionalFloat(args domain.Args, key string, def float64) (float64, error) {
	n, ok, err := argNumber(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return n, nil
}

func requireString(args domain.Args, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", missingArg(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", badArg(key, v)
	}
	return s, nil
}

func optionalString(args domain.Args, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", badArg(key, v)
	}
	return s, nil
}

func optionalBool(args domain.Args, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, badArg(key, v)
	}
	return b, nil
}

func missingArg(key string) error {
	return zerr.With(zerr.Wrap(domain.ErrValidation, "missing required argument"), "argument", key)
}

func badArg(key string, v any) error {
	err := zerr.With(zerr.Wrap(domain.ErrValidation, "argument has wrong type"), "argument", key)
	return zerr.With(err, "value", v)
}

// requireOneImage is the common single-input guard.
func requireOneImage(images [][]byte) ([]byte, error) {
	if len(images) != 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrValidation, "operation takes exactly one image"), "images", len(images))
	}
	return images[0], nil
}
