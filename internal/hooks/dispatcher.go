// Package hooks provides the default in-process hook dispatcher: ordered
// lists of handlers per extension point, each handler receiving the mutable
// event. The dispatcher returns after every handler ran; whatever the last
// handler left on the event is what the pipeline sees.
package hooks

import (
	"context"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.HookDispatcher = (*Dispatcher)(nil)

// Handler observes one event and may mutate it.
type Handler[E any] func(ctx context.Context, event *E)

// handlerList is an ordered, concurrency-safe list of handlers for one
// extension point.
type handlerList[E any] struct {
	mu       sync.RWMutex
	handlers []Handler[E]
}

// subscribe appends a handler. Registration order is dispatch order.
func (l *handlerList[E]) subscribe(h Handler[E]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// dispatch runs every handler in order against the same event.
func (l *handlerList[E]) dispatch(ctx context.Context, event *E) {
	l.mu.RLock()
	handlers := make([]Handler[E], len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event)
	}
}

// Dispatcher implements driven.HookDispatcher over in-process handler lists.
type Dispatcher struct {
	preInitiate   handlerList[domain.PreInitiateEvent]
	initiate      handlerList[domain.OperationEvent]
	terminate     handlerList[domain.TerminateEvent]
	postTerminate handlerList[domain.TerminateEvent]
	remoteMapping handlerList[domain.RemoteMappingEvent]
	localMapping  handlerList[domain.LocalMappingEvent]
	listFilters   handlerList[domain.ListFiltersEvent]
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnPreInitiate registers a pre-initiate subscriber.
func (d *Dispatcher) OnPreInitiate(h Handler[domain.PreInitiateEvent]) {
	d.preInitiate.subscribe(h)
}

// OnInitiate registers an initiate subscriber.
func (d *Dispatcher) OnInitiate(h Handler[domain.OperationEvent]) {
	d.initiate.subscribe(h)
}

// OnTerminate registers a terminate subscriber.
func (d *Dispatcher) OnTerminate(h Handler[domain.TerminateEvent]) {
	d.terminate.subscribe(h)
}

// OnPostTerminate registers a post-terminate subscriber.
func (d *Dispatcher) OnPostTerminate(h Handler[domain.TerminateEvent]) {
	d.postTerminate.subscribe(h)
}

// OnRemoteMapping registers a remote-entity-mapping subscriber.
func (d *Dispatcher) OnRemoteMapping(h Handler[domain.RemoteMappingEvent]) {
	d.remoteMapping.subscribe(h)
}

// OnLocalMapping registers a local-entity-mapping subscriber.
func (d *Dispatcher) OnLocalMapping(h Handler[domain.LocalMappingEvent]) {
	d.localMapping.subscribe(h)
}

// OnListFilters registers a list-filters subscriber.
func (d *Dispatcher) OnListFilters(h Handler[domain.ListFiltersEvent]) {
	d.listFilters.subscribe(h)
}

func (d *Dispatcher) PreInitiate(ctx context.Context, event *domain.PreInitiateEvent) {
	d.preInitiate.dispatch(ctx, event)
}

func (d *Dispatcher) Initiate(ctx context.Context, event *domain.OperationEvent) {
	d.initiate.dispatch(ctx, event)
}

func (d *Dispatcher) Terminate(ctx context.Context, event *domain.TerminateEvent) {
	d.terminate.dispatch(ctx, event)
}

func (d *Dispatcher) PostTerminate(ctx context.Context, event *domain.TerminateEvent) {
	d.postTerminate.dispatch(ctx, event)
}

func (d *Dispatcher) RemoteMapping(ctx context.Context, event *domain.RemoteMappingEvent) {
	d.remoteMapping.dispatch(ctx, event)
}

func (d *Dispatcher) LocalMapping(ctx context.Context, event *domain.LocalMappingEvent) {
	d.localMapping.dispatch(ctx, event)
}

func (d *Dispatcher) ListFilters(ctx context.Context, event *domain.ListFiltersEvent) {
	d.listFilters.dispatch(ctx, event)
}
