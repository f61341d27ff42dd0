package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/pixelmill/pixelmill/internal/core/domain"
)

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	if resp := s.handleStatsTool(req.ID, params.Name); resp != nil {
		return resp
	}

	args, images, err := extractImages(params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid image payload", err.Error())
	}

	result, err := s.dispatcher.Dispatch(ctx, params.Name, args, images)
	if err != nil {
		s.logger.Error(err)
		return s.dispatchError(req.ID, err)
	}

	return s.resultResponse(req.ID, result)
}

// extractImages pulls the image payloads out of the argument mapping and
// decodes them. The remaining arguments are what the fingerprint and handler
// see; image content is hashed separately from the argument map.
func extractImages(raw map[string]any) (domain.Args, [][]byte, error) {
	args := make(domain.Args, len(raw))
	var base, mark []byte
	var batch [][]byte

	for key, value := range raw {
		switch key {
		case "image":
			s, ok := value.(string)
			if !ok {
				return nil, nil, errNotBase64(key)
			}
			decoded, err := decodeImagePayload(s)
			if err != nil {
				return nil, nil, err
			}
			base = decoded
		case "watermark":
			s, ok := value.(string)
			if !ok {
				return nil, nil, errNotBase64(key)
			}
			decoded, err := decodeImagePayload(s)
			if err != nil {
				return nil, nil, err
			}
			mark = decoded
		case "images":
			list, ok := value.([]any)
			if !ok {
				return nil, nil, errNotBase64(key)
			}
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, nil, errNotBase64(key)
				}
				decoded, err := decodeImagePayload(s)
				if err != nil {
					return nil, nil, err
				}
				batch = append(batch, decoded)
			}
		default:
			args[key] = value
		}
	}

	var images [][]byte
	switch {
	case batch != nil:
		images = batch
	case base != nil && mark != nil:
		images = [][]byte{base, mark}
	case base != nil:
		images = [][]byte{base}
	}
	return args, images, nil
}

// dispatchError maps a domain error kind to a JSON-RPC error response.
func (s *Server) dispatchError(id any, err error) *Response {
	kind := domain.KindOf(err)
	code := CodeToolFailed
	switch kind {
	case domain.KindNotFound:
		code = CodeMethodNotFound
	case domain.KindValidation:
		code = CodeInvalidParams
	case domain.KindInternal:
		code = CodeInternal
	}
	return s.errorResponse(id, code, err.Error(), map[string]any{"kind": string(kind)})
}

var formatMimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
}

// resultResponse renders a dispatch result: JSON payloads as text content,
// image payloads as base64 image content.
func (s *Server) resultResponse(id any, result *domain.Result) *Response {
	if result.Format == "json" {
		return s.textResult(id, string(result.Data))
	}

	mime, ok := formatMimeTypes[result.Format]
	if !ok {
		mime = "application/octet-stream"
	}
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]any{
			"content": []any{imageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(result.Data),
				MimeType: mime,
			}},
		},
	}
}
