package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pixelmill/pixelmill/internal/build"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
)

const (
	// maxLineBytes bounds a single request line; base64 images are bulky.
	maxLineBytes = 64 << 20

	initialBufBytes = 64 << 10
)

// Server reads requests from in and writes responses to out. It owns no
// processing logic: calls go through the dispatcher.
type Server struct {
	in         io.Reader
	encoder    *json.Encoder
	dispatcher *dispatch.Dispatcher
	logger     ports.Logger

	// writeMu serializes response encoding; tool calls answer from their own
	// goroutines.
	writeMu sync.Mutex
}

// NewServer creates a protocol server over the given streams.
func NewServer(in io.Reader, out io.Writer, dispatcher *dispatch.Dispatcher, logger ports.Logger) *Server {
	return &Server{in: in, encoder: json.NewEncoder(out), dispatcher: dispatcher, logger: logger}
}

// Run serves requests until the input stream closes or ctx is canceled.
// Tool calls run on their own goroutines so the executor pool, not the read
// loop, bounds concurrency; lifecycle methods stay inline so initialize and
// tools/list answer in request order.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, initialBufBytes), maxLineBytes)

	var calls sync.WaitGroup
	defer calls.Wait()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn(fmt.Sprintf("dropping unparseable request: %v", err))
			continue
		}

		if req.Method == "tools/call" {
			calls.Add(1)
			go func(req Request) {
				defer calls.Done()
				s.write(s.handle(ctx, &req))
			}(req)
			continue
		}

		s.write(s.handle(ctx, &req))
	}

	return scanner.Err()
}

func (s *Server) write(resp *Response) {
	if resp == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.encoder.Encode(resp); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to write response: %v", err))
	}
}

// handle routes one request. A nil return means no response is due (such as
// for notifications).
func (s *Server) handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    CodeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "pixelmill",
				"version": build.Version,
			},
		},
	}
}

func (s *Server) errorResponse(id any, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}
