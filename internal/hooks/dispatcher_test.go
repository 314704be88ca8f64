package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

func TestDispatcher_OrderedDispatch(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	var order []string
	d.OnInitiate(func(ctx context.Context, e *domain.OperationEvent) {
		order = append(order, "first")
	})
	d.OnInitiate(func(ctx context.Context, e *domain.OperationEvent) {
		order = append(order, "second")
	})

	d.Initiate(ctx, &domain.OperationEvent{Operation: domain.OperationImportList})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcher_PreInitiateCancel(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	d.OnPreInitiate(func(ctx context.Context, e *domain.PreInitiateEvent) {
		e.Cancel()
	})

	event := &domain.PreInitiateEvent{}
	d.PreInitiate(ctx, event)

	assert.True(t, event.Cancelled())
}

func TestDispatcher_LastHandlerWinsMapping(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	sync := &domain.SyncDefinition{ID: "s", Local: domain.LocalEntityDef{TypeID: "node"}}

	d.OnRemoteMapping(func(ctx context.Context, e *domain.RemoteMappingEvent) {
		e.Mapping = &domain.EntityMapping{Action: domain.ActionUpdate, ID: "local-1"}
	})
	d.OnRemoteMapping(func(ctx context.Context, e *domain.RemoteMappingEvent) {
		e.Mapping = domain.SkipMapping(e.Sync)
	})

	event := &domain.RemoteMappingEvent{
		Sync:    sync,
		Remote:  domain.RemoteEntity{"uid": "7"},
		Mapping: &domain.EntityMapping{Action: domain.ActionCreate},
	}
	d.RemoteMapping(ctx, event)

	assert.Equal(t, domain.ActionSkip, event.Mapping.Action)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	// Dispatching with no subscribers must leave the event untouched.
	event := &domain.PreInitiateEvent{}
	d.PreInitiate(ctx, event)
	assert.False(t, event.Cancelled())

	filters := &domain.ListFiltersEvent{Filters: domain.ListFilters{"status": "published"}}
	d.ListFilters(ctx, filters)
	assert.Equal(t, "published", filters.Filters["status"])
}

func TestDispatcher_MutableFilters(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	d.OnListFilters(func(ctx context.Context, e *domain.ListFiltersEvent) {
		e.Filters["modified_since"] = "2026-01-01"
	})

	event := &domain.ListFiltersEvent{Filters: domain.ListFilters{}}
	d.ListFilters(ctx, event)

	assert.Equal(t, "2026-01-01", event.Filters["modified_since"])
}
