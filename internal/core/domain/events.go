package domain

// Hook event payloads. Each extension point carries a typed event; mutable
// fields on the event are how subscribers influence the pipeline.

// OperationEvent is the payload common to the lifecycle extension points.
type OperationEvent struct {
	// Sync is the definition the operation runs under
	Sync *SyncDefinition

	// Operation identifies which pipeline is running
	Operation OperationID

	// Context is the live operation context of the invocation
	Context OperationContext
}

// PreInitiateEvent is dispatched before anything else; any subscriber may
// cancel the whole pipeline, including post-terminate.
type PreInitiateEvent struct {
	OperationEvent

	cancelled bool
}

// Cancel flags the operation for cancellation.
func (e *PreInitiateEvent) Cancel() {
	e.cancelled = true
}

// Cancelled reports whether any subscriber cancelled the operation.
func (e *PreInitiateEvent) Cancelled() bool {
	return e.cancelled
}

// TerminateEvent is dispatched at terminate and post-terminate, carrying the
// operation's outcome.
type TerminateEvent struct {
	OperationEvent

	// Err is the execute-phase failure, nil on success
	Err error
}

// RemoteMappingEvent lets subscribers override how a remote entity maps to a
// local counterpart. The dispatcher runs subscribers in order; whatever the
// last one leaves in Mapping wins.
type RemoteMappingEvent struct {
	// Sync is the definition the mapping is resolved under
	Sync *SyncDefinition

	// Remote is the entity being imported
	Remote RemoteEntity

	// Mapping is the mutable resolution result, seeded with the default
	Mapping *EntityMapping
}

// LocalMappingEvent is the export-direction counterpart of
// RemoteMappingEvent.
type LocalMappingEvent struct {
	// Sync is the definition the mapping is resolved under
	Sync *SyncDefinition

	// Local is the entity being exported
	Local *Entity

	// Mapping is the mutable resolution result, seeded with the default
	Mapping *EntityMapping
}

// ListFiltersEvent lets subscribers adjust the filters of a list import
// before the remote fetch.
type ListFiltersEvent struct {
	// Sync is the definition the list import runs under
	Sync *SyncDefinition

	// Filters is the mutable filter set sent to the remote client
	Filters ListFilters
}
