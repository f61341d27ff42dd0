// Package registry implements the operation lookup table. Handlers register
// during startup composition; Freeze then seals the table so the dispatch
// path can resolve names with a plain map read.
package registry

import (
	"sort"
	"sync"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"go.trai.ch/zerr"
)

type registry struct {
	mu     sync.RWMutex
	frozen bool
	ops    map[string]*domain.Operation
}

// New returns an empty, unfrozen registry.
func New() ports.Registry {
	return &registry{ops: make(map[string]*domain.Operation)}
}

func (r *registry) Register(op domain.Operation) error {
	if op.Name == "" {
		return zerr.Wrap(domain.ErrValidation, "operation name must not be empty")
	}
	if op.Handler == nil {
		return zerr.With(zerr.Wrap(domain.ErrValidation, "operation has no handler"), "operation", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return zerr.With(domain.ErrRegistryFrozen, "operation", op.Name)
	}
	if _, exists := r.ops[op.Name]; exists {
		return zerr.With(domain.ErrDuplicateOperation, "operation", op.Name)
	}
	r.ops[op.Name] = &op
	return nil
}

func (r *registry) Resolve(name string) (*domain.Operation, error) {
	r.mu.RLock()
	op, ok := r.ops[name]
	r.mu.RUnlock()
	if !ok {
		return nil, zerr.With(domain.ErrOperationNotFound, "operation", name)
	}
	return op, nil
}

func (r *registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.ops))
	for name := range r.ops {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *registry) Descriptors() []*domain.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Operation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
