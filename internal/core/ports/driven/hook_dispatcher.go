package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// HookDispatcher notifies subscribers at the seven extension points of the
// synchronization pipeline. Dispatch is fire-and-observe: subscribers run in
// registration order and influence the pipeline only through the mutable
// fields of the event they receive (the pre-initiate cancel flag, the
// mapping result, the list filters).
type HookDispatcher interface {
	// PreInitiate runs before anything else; subscribers may cancel.
	PreInitiate(ctx context.Context, event *domain.PreInitiateEvent)

	// Initiate signals that execution is committed.
	Initiate(ctx context.Context, event *domain.OperationEvent)

	// Terminate signals logical completion, carrying result data.
	Terminate(ctx context.Context, event *domain.TerminateEvent)

	// PostTerminate runs unconditionally once initiate has fired, even
	// when execute failed.
	PostTerminate(ctx context.Context, event *domain.TerminateEvent)

	// RemoteMapping lets subscribers override remote-to-local mapping.
	RemoteMapping(ctx context.Context, event *domain.RemoteMappingEvent)

	// LocalMapping lets subscribers override local-to-remote mapping.
	LocalMapping(ctx context.Context, event *domain.LocalMappingEvent)

	// ListFilters lets subscribers adjust list import filters.
	ListFilters(ctx context.Context, event *domain.ListFiltersEvent)
}
