package domain

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" {
		t.Error("expected non-empty ID")
	}
	if id1 == id2 {
		t.Error("expected unique IDs")
	}
	// Base64 URL encoding of 16 bytes = 22 chars
	if len(id1) != 22 {
		t.Errorf("expected ID length 22, got %d", len(id1))
	}
}

func TestNewExportTask(t *testing.T) {
	task := NewExportTask("node_sync", "node", "42")

	if task.ID == "" {
		t.Error("expected non-empty ID")
	}
	if task.SyncID != "node_sync" {
		t.Errorf("expected sync ID node_sync, got %s", task.SyncID)
	}
	if task.EntityTypeID != "node" {
		t.Errorf("expected entity type node, got %s", task.EntityTypeID)
	}
	if task.EntityID != "42" {
		t.Errorf("expected entity ID 42, got %s", task.EntityID)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("expected status %s, got %s", TaskStatusPending, task.Status)
	}
	if task.MaxAttempts != 3 {
		t.Errorf("expected max attempts 3, got %d", task.MaxAttempts)
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestExportTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    *ExportTask
		wantErr bool
	}{
		{"valid", &ExportTask{SyncID: "s", EntityTypeID: "node", EntityID: "1"}, false},
		{"missing sync_id", &ExportTask{EntityTypeID: "node", EntityID: "1"}, true},
		{"missing entity_type_id", &ExportTask{SyncID: "s", EntityID: "1"}, true},
		{"missing entity_id", &ExportTask{SyncID: "s", EntityTypeID: "node"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExportTask_Lifecycle(t *testing.T) {
	task := NewExportTask("s", "node", "1")

	task.MarkProcessing()
	if task.Status != TaskStatusProcessing {
		t.Errorf("expected status processing, got %s", task.Status)
	}
	if task.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", task.Attempts)
	}
	if task.StartedAt == nil {
		t.Error("expected StartedAt to be set")
	}

	task.MarkCompleted()
	if task.Status != TaskStatusCompleted {
		t.Errorf("expected status completed, got %s", task.Status)
	}
	if task.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
	if task.Error != "" {
		t.Error("expected error to be cleared")
	}
}

func TestExportTask_Retry_Backoff(t *testing.T) {
	task := NewExportTask("s", "node", "1")
	task.MarkProcessing()

	before := time.Now()
	task.Retry("remote unavailable")

	if task.Status != TaskStatusPending {
		t.Errorf("expected status pending after retry, got %s", task.Status)
	}
	if task.Error != "remote unavailable" {
		t.Errorf("expected error message, got %s", task.Error)
	}
	if !task.ScheduledFor.After(before) {
		t.Error("expected ScheduledFor to be delayed")
	}
}

func TestExportTask_CanRetry(t *testing.T) {
	task := NewExportTask("s", "node", "1")

	for i := 0; i < task.MaxAttempts; i++ {
		if !task.CanRetry() {
			t.Fatalf("expected CanRetry at attempt %d", i)
		}
		task.MarkProcessing()
	}
	if task.CanRetry() {
		t.Error("expected CanRetry to be false after max attempts")
	}
}
