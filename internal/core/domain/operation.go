package domain

import (
	"context"
	"time"
)

// Args is the decoded argument mapping of a tool call.
type Args map[string]any

// Handler executes one image operation. Input images arrive as decoded byte
// content (never paths); the handler returns a new result or fails. Handlers
// must be pure with respect to their inputs so results can be cached by
// fingerprint.
type Handler func(ctx context.Context, args Args, images [][]byte) (*Result, error)

// Operation describes a registered operation: its handler plus the metadata
// the dispatch layer needs to route, cache, and advertise it. Operations are
// created during startup registration and are immutable afterwards.
type Operation struct {
	// Name is the unique tool name, e.g. "resize".
	Name string

	// Handler is the function invoked by the executor.
	Handler Handler

	// Cacheable marks results as safe to store in the result cache.
	Cacheable bool

	// Timeout overrides the configured per-task timeout when non-zero.
	Timeout time.Duration

	// MaxInputBytes overrides the configured input size limit when non-zero.
	MaxInputBytes int64

	// Description and InputSchema feed the protocol layer's tool listing.
	Description string
	InputSchema map[string]any
}
