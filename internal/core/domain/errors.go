package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrOperationNotFound is returned when a tool call names an operation that was never registered.
	ErrOperationNotFound = zerr.New("operation not found")

	// ErrDuplicateOperation is returned when two operations are registered under the same name.
	ErrDuplicateOperation = zerr.New("operation already registered")

	// ErrRegistryFrozen is returned when registration is attempted after startup completed.
	ErrRegistryFrozen = zerr.New("registry is frozen, registration is only allowed during startup")

	// ErrValidation is returned when request arguments or input images are malformed or out of range.
	ErrValidation = zerr.New("invalid arguments")

	// ErrOverloaded is returned when the executor queue is at capacity and cannot accept work.
	ErrOverloaded = zerr.New("server overloaded, task queue is full")

	// ErrTimeout is returned when a task exceeds its processing deadline.
	ErrTimeout = zerr.New("operation timed out")

	// ErrHandlerFailed is returned when an operation handler returns an error or panics.
	ErrHandlerFailed = zerr.New("operation handler failed")

	// ErrExecutorClosed is returned when work is submitted after the executor shut down.
	ErrExecutorClosed = zerr.New("executor is shut down")

	// ErrInvalidConfig is returned when the startup configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrImageDecodeFailed is returned when an input image cannot be decoded.
	ErrImageDecodeFailed = zerr.New("failed to decode image")

	// ErrImageEncodeFailed is returned when a result image cannot be encoded.
	ErrImageEncodeFailed = zerr.New("failed to encode image")

	// ErrImageTooLarge is returned when an input image exceeds the configured maximum dimension.
	ErrImageTooLarge = zerr.New("image dimensions exceed the configured maximum")

	// ErrServerStopped is returned when the protocol loop ends because stdin closed.
	ErrServerStopped = zerr.New("server stopped")
)

// ErrorKind is the coarse failure classification surfaced to the protocol
// layer and tallied by the performance monitor.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation"
	KindOverloaded    ErrorKind = "overloaded"
	KindTimeout       ErrorKind = "timeout"
	KindHandlerFailed ErrorKind = "handler_failed"
	KindConfiguration ErrorKind = "configuration"
	KindInternal      ErrorKind = "internal"
)

// KindOf classifies an error chain into an ErrorKind. Unrecognized errors
// classify as KindInternal so every failure lands in exactly one bucket.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrOperationNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrImageDecodeFailed), errors.Is(err, ErrImageTooLarge):
		return KindValidation
	case errors.Is(err, ErrOverloaded):
		return KindOverloaded
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrHandlerFailed):
		return KindHandlerFailed
	case errors.Is(err, ErrDuplicateOperation), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrRegistryFrozen):
		return KindConfiguration
	default:
		return KindInternal
	}
}
