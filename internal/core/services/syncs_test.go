package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven/mocks"
)

func boolPtr(b bool) *bool { return &b }

// fixtureSyncs returns definitions varying along every filter dimension:
// sync status, local entity type, and import_list presence/enablement.
func fixtureSyncs() []*domain.SyncDefinition {
	def := func(id string, enabled bool, typeID string, ops map[domain.OperationID]*domain.OperationConfig) *domain.SyncDefinition {
		return &domain.SyncDefinition{
			ID:         id,
			Enabled:    enabled,
			Local:      domain.LocalEntityDef{TypeID: typeID, RemoteIDField: "remote_id"},
			Remote:     domain.RemoteResourceDef{IDField: "id"},
			Operations: ops,
		}
	}
	listOp := func(enabled bool) map[domain.OperationID]*domain.OperationConfig {
		return map[domain.OperationID]*domain.OperationConfig{
			domain.OperationImportList: {Enabled: enabled},
		}
	}

	return []*domain.SyncDefinition{
		def("user__enabled__operation_enabled", true, "user", listOp(true)),
		def("user__enabled__operation_disabled", true, "user", listOp(false)),
		def("user__enabled__no_operation", true, "user", nil),
		def("user__disabled__operation_enabled", false, "user", listOp(true)),
		def("node__enabled__operation_enabled", true, "node", listOp(true)),
		def("node__enabled__no_operation", true, "node", nil),
		def("node__disabled__operation_disabled", false, "node", listOp(false)),
		def("node__disabled__no_operation", false, "node", nil),
	}
}

func TestSyncService_GetSyncs(t *testing.T) {
	tests := []struct {
		name   string
		filter *domain.SyncFilter
		want   []string
	}{
		{
			name:   "no filter returns everything",
			filter: nil,
			want: []string{
				"node__disabled__no_operation",
				"node__disabled__operation_disabled",
				"node__enabled__no_operation",
				"node__enabled__operation_enabled",
				"user__disabled__operation_enabled",
				"user__enabled__no_operation",
				"user__enabled__operation_disabled",
				"user__enabled__operation_enabled",
			},
		},
		{
			name:   "enabled only",
			filter: &domain.SyncFilter{Enabled: boolPtr(true)},
			want: []string{
				"node__enabled__no_operation",
				"node__enabled__operation_enabled",
				"user__enabled__no_operation",
				"user__enabled__operation_disabled",
				"user__enabled__operation_enabled",
			},
		},
		{
			name:   "local type only",
			filter: &domain.SyncFilter{LocalTypeID: "user"},
			want: []string{
				"user__disabled__operation_enabled",
				"user__enabled__no_operation",
				"user__enabled__operation_disabled",
				"user__enabled__operation_enabled",
			},
		},
		{
			name: "operation defined",
			filter: &domain.SyncFilter{
				Operation: &domain.OperationFilter{ID: domain.OperationImportList},
			},
			want: []string{
				"node__disabled__operation_disabled",
				"node__enabled__operation_enabled",
				"user__disabled__operation_enabled",
				"user__enabled__operation_disabled",
				"user__enabled__operation_enabled",
			},
		},
		{
			name: "operation defined and enabled",
			filter: &domain.SyncFilter{
				Operation: &domain.OperationFilter{ID: domain.OperationImportList, Enabled: boolPtr(true)},
			},
			want: []string{
				"node__enabled__operation_enabled",
				"user__disabled__operation_enabled",
				"user__enabled__operation_enabled",
			},
		},
		{
			name: "full conjunction",
			filter: &domain.SyncFilter{
				Enabled:     boolPtr(true),
				LocalTypeID: "user",
				Operation:   &domain.OperationFilter{ID: domain.OperationImportList, Enabled: boolPtr(true)},
			},
			want: []string{"user__enabled__operation_enabled"},
		},
		{
			name:   "disjoint conjunction matches nothing",
			filter: &domain.SyncFilter{Enabled: boolPtr(false), LocalTypeID: "missing"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockSyncConfigStore()
			for _, sync := range fixtureSyncs() {
				store.Put(sync)
			}
			svc := NewSyncService(store, nil)

			got, err := svc.GetSyncs(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("GetSyncs() error = %v", err)
			}

			var ids []string
			for id := range got {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			if len(ids) != len(tt.want) {
				t.Fatalf("GetSyncs() returned %v, want %v", ids, tt.want)
			}
			for i, id := range ids {
				if id != tt.want[i] {
					t.Errorf("GetSyncs()[%d] = %q, want %q", i, id, tt.want[i])
				}
			}
		})
	}
}

func TestSyncService_GetSyncsEmptyStore(t *testing.T) {
	svc := NewSyncService(mocks.NewMockSyncConfigStore(), nil)

	filter := &domain.SyncFilter{
		Enabled:     boolPtr(true),
		LocalTypeID: "user",
		Operation:   &domain.OperationFilter{ID: domain.OperationImportList, Enabled: boolPtr(true)},
	}
	got, err := svc.GetSyncs(context.Background(), filter)
	if err != nil {
		t.Fatalf("GetSyncs() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetSyncs() on empty store returned %d definitions, want 0", len(got))
	}
}

func TestSyncService_GetSync(t *testing.T) {
	store := mocks.NewMockSyncConfigStore()
	store.Put(&domain.SyncDefinition{ID: "users", Enabled: true})
	svc := NewSyncService(store, nil)

	sync, err := svc.GetSync(context.Background(), "users")
	if err != nil {
		t.Fatalf("GetSync() error = %v", err)
	}
	if sync.ID != "users" {
		t.Errorf("GetSync() id = %q, want %q", sync.ID, "users")
	}

	_, err = svc.GetSync(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetSync() error = %v, want ErrNotFound", err)
	}
}
