package domain

import (
	"errors"
	"testing"
)

func testSync(enabled bool, ops map[OperationID]*OperationConfig) *SyncDefinition {
	return &SyncDefinition{
		ID:      "user_sync",
		Enabled: enabled,
		Local: LocalEntityDef{
			TypeID:        "user",
			RemoteIDField: "remote_uid",
		},
		Remote: RemoteResourceDef{
			IDField:      "uid",
			ChangedField: "updated_at",
		},
		Operations: ops,
	}
}

func TestSyncDefinition_OperationEnabled(t *testing.T) {
	tests := []struct {
		name        string
		syncEnabled bool
		ops         map[OperationID]*OperationConfig
		op          OperationID
		want        bool
	}{
		{
			name:        "both enabled",
			syncEnabled: true,
			ops:         map[OperationID]*OperationConfig{OperationImportList: {Enabled: true}},
			op:          OperationImportList,
			want:        true,
		},
		{
			name:        "sync disabled",
			syncEnabled: false,
			ops:         map[OperationID]*OperationConfig{OperationImportList: {Enabled: true}},
			op:          OperationImportList,
			want:        false,
		},
		{
			name:        "operation disabled",
			syncEnabled: true,
			ops:         map[OperationID]*OperationConfig{OperationImportList: {Enabled: false}},
			op:          OperationImportList,
			want:        false,
		},
		{
			name:        "operation undefined",
			syncEnabled: true,
			ops:         map[OperationID]*OperationConfig{OperationImportList: {Enabled: true}},
			op:          OperationExportEntity,
			want:        false,
		},
		{
			name:        "nil operations map",
			syncEnabled: true,
			ops:         nil,
			op:          OperationImportList,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync := testSync(tt.syncEnabled, tt.ops)
			if got := sync.OperationEnabled(tt.op); got != tt.want {
				t.Errorf("OperationEnabled(%s) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestOperationConfig_ErrorPolicy(t *testing.T) {
	tests := []struct {
		name       string
		configured QueueErrorPolicy
		want       QueueErrorPolicy
		wantErr    bool
	}{
		{"unset defaults to throw", "", PolicyThrow, false},
		{"throw", PolicyThrow, PolicyThrow, false},
		{"log_and_skip", PolicyLogAndSkip, PolicyLogAndSkip, false},
		{"log_and_throw", PolicyLogAndThrow, PolicyLogAndThrow, false},
		{"skip", PolicySkip, PolicySkip, false},
		{"unknown is fatal", QueueErrorPolicy("retry_forever"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &OperationConfig{QueueErrorHandling: tt.configured}
			got, err := cfg.ErrorPolicy()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected configuration error")
				}
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("expected ErrConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ErrorPolicy() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMappingAction_Validate(t *testing.T) {
	for _, action := range []MappingAction{ActionCreate, ActionUpdate, ActionSkip} {
		if err := action.Validate(); err != nil {
			t.Errorf("unexpected error for %s: %v", action, err)
		}
	}

	err := MappingAction("merge").Validate()
	if err == nil {
		t.Fatal("expected error for unsupported action")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestSyncFilter_Matches_NilFilter(t *testing.T) {
	sync := testSync(false, nil)
	var f *SyncFilter
	if !f.Matches(sync) {
		t.Error("nil filter must match everything")
	}
}
