package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the referenced local or remote entity was not found
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates caller-fixable malformed input (queue item shape,
	// unexpected remote payload)
	ErrValidation = errors.New("validation failed")

	// ErrMapping indicates a remote payload could not be constructed into a
	// usable record shape
	ErrMapping = errors.New("mapping failed")

	// ErrConfiguration indicates an unusable sync configuration: unknown queue
	// error policy, unsupported mapping action, disabled operation invoked
	ErrConfiguration = errors.New("invalid configuration")

	// ErrStorage indicates a failure loading or saving local entities
	ErrStorage = errors.New("storage failure")

	// ErrExecution indicates a transient remote or I/O failure during an
	// operation's execute phase
	ErrExecution = errors.New("execution failure")

	// ErrOperationDisabled indicates the requested operation is not enabled
	// on the sync definition
	ErrOperationDisabled = errors.New("operation disabled")

	// ErrSyncInProgress indicates another operation holds the sync lock
	ErrSyncInProgress = errors.New("sync operation already in progress")
)
