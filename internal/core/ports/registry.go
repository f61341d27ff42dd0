package ports

import "github.com/pixelmill/pixelmill/internal/core/domain"

// Registry maps operation names to their descriptors. Registration happens
// once during startup composition; after Freeze the registry is read-only
// and concurrent Resolve calls need no locking.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// Register adds an operation. It fails with domain.ErrDuplicateOperation
	// if the name is taken and domain.ErrRegistryFrozen after Freeze.
	Register(op domain.Operation) error

	// Resolve returns the descriptor for name or domain.ErrOperationNotFound.
	Resolve(name string) (*domain.Operation, error)

	// Freeze ends the registration phase.
	Freeze()

	// Names returns all registered operation names sorted bytewise.
	Names() []string

	// Descriptors returns all registered operations sorted by name.
	Descriptors() []*domain.Operation
}
