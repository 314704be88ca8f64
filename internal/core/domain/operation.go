package domain

// Context keys populated by the operation lifecycle controller.
const (
	ContextLocalEntity  = "local_entity"
	ContextRemoteEntity = "remote_entity"
	ContextResponse     = "response"
)

// OperationContext is the mutable associative bag threaded through one
// lifecycle invocation: caller-supplied seed values plus entity references
// added by the controller. Owned exclusively by the single invocation.
type OperationContext map[string]any

// NewOperationContext copies the caller-supplied seed values into a fresh
// context. A nil seed yields an empty context.
func NewOperationContext(seed OperationContext) OperationContext {
	octx := make(OperationContext, len(seed)+2)
	for k, v := range seed {
		octx[k] = v
	}
	return octx
}

// LocalEntity returns the local entity reference, if the controller set one.
func (c OperationContext) LocalEntity() *Entity {
	e, _ := c[ContextLocalEntity].(*Entity)
	return e
}

// SetLocalEntity records the local entity reference.
func (c OperationContext) SetLocalEntity(e *Entity) {
	c[ContextLocalEntity] = e
}

// RemoteEntityRef returns the remote entity reference, if set.
func (c OperationContext) RemoteEntityRef() RemoteEntity {
	e, _ := c[ContextRemoteEntity].(RemoteEntity)
	return e
}

// SetRemoteEntity records the remote entity reference.
func (c OperationContext) SetRemoteEntity(e RemoteEntity) {
	c[ContextRemoteEntity] = e
}

// ListFilters carries caller-supplied constraints on a remote list fetch.
// Keys and value shapes are client-specific.
type ListFilters map[string]any

// Options tunes a single operation invocation.
type Options struct {
	// Limit bounds the number of items an import_list processes.
	// NoLimit (the zero value is normalized to it) means unbounded.
	Limit int

	// Context seeds the operation context
	Context OperationContext

	// Client forwards client-specific fetch options, overriding the
	// sync definition's client selection
	Client *ClientConfig
}

// EffectiveLimit normalizes the limit: zero or negative means unbounded.
func (o *Options) EffectiveLimit() int {
	if o == nil || o.Limit <= 0 {
		return NoLimit
	}
	return o.Limit
}

// SeedContext returns the caller-supplied context seed, which may be nil.
func (o *Options) SeedContext() OperationContext {
	if o == nil {
		return nil
	}
	return o.Context
}

// ClientOverride returns the caller-supplied client selection, if any.
func (o *Options) ClientOverride() *ClientConfig {
	if o == nil {
		return nil
	}
	return o.Client
}
