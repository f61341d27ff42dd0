package mcp

import (
	"encoding/base64"
	"strings"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"go.trai.ch/zerr"
)

// decodeImagePayload accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 string and returns the raw image bytes.
func decodeImagePayload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.Contains(s[:comma], ";base64") {
			return nil, zerr.Wrap(domain.ErrValidation, "data URI is not base64 encoded")
		}
		s = s[comma+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients omit padding.
		decoded, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, zerr.Wrap(domain.ErrValidation, "invalid base64 image payload")
	}
	if len(decoded) == 0 {
		return nil, zerr.Wrap(domain.ErrValidation, "empty image payload")
	}
	return decoded, nil
}

func errNotBase64(key string) error {
	return zerr.With(zerr.Wrap(domain.ErrValidation, "image argument must be a base64 string"), "argument", key)
}
