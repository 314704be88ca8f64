package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response
type StatusResponse struct {
	Status string `json:"status"`
}

// Health endpoints

// handleHealth returns the liveness status of the API.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports readiness, checking the backing stores.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion returns the current API version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Sync definition endpoints

// handleListSyncs returns sync definitions matching the query filters.
// Supported parameters: enabled, local_type, operation, operation_enabled.
func (s *Server) handleListSyncs(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	syncs, err := s.syncs.GetSyncs(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"syncs": syncs})
}

func filterFromQuery(r *http.Request) (*domain.SyncFilter, error) {
	query := r.URL.Query()
	if len(query) == 0 {
		return nil, nil
	}

	filter := &domain.SyncFilter{
		LocalTypeID: query.Get("local_type"),
	}

	if raw := query.Get("enabled"); raw != "" {
		enabled, err := parseBool(raw)
		if err != nil {
			return nil, err
		}
		filter.Enabled = &enabled
	}

	if op := query.Get("operation"); op != "" {
		opFilter := &domain.OperationFilter{ID: domain.OperationID(op)}
		if raw := query.Get("operation_enabled"); raw != "" {
			enabled, err := parseBool(raw)
			if err != nil {
				return nil, err
			}
			opFilter.Enabled = &enabled
		}
		filter.Operation = opFilter
	}

	return filter, nil
}

func parseBool(raw string) (bool, error) {
	switch raw {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, errors.New("boolean parameter must be true or false")
	}
}

// handleGetSync returns one sync definition by id.
func (s *Server) handleGetSync(w http.ResponseWriter, r *http.Request) {
	sync, err := s.syncs.GetSync(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sync)
}

// Operation endpoints

type importListRequest struct {
	Filters domain.ListFilters   `json:"filters,omitempty"`
	Limit   int                  `json:"limit,omitempty"`
	Client  *domain.ClientConfig `json:"client,omitempty"`
}

// handleImportList runs the import_list operation synchronously.
func (s *Server) handleImportList(w http.ResponseWriter, r *http.Request) {
	var req importListRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := &domain.Options{Limit: req.Limit, Client: req.Client}
	if err := s.operations.ImportRemoteList(r.Context(), r.PathValue("id"), req.Filters, opts); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

type importEntityRequest struct {
	RemoteID string               `json:"remote_id,omitempty"`
	Payload  any                  `json:"payload,omitempty"`
	Client   *domain.ClientConfig `json:"client,omitempty"`
}

// handleImportEntity imports one remote entity, either by remote id or from
// an already-fetched payload.
func (s *Server) handleImportEntity(w http.ResponseWriter, r *http.Request) {
	var req importEntityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncID := r.PathValue("id")
	opts := &domain.Options{Client: req.Client}

	var err error
	switch {
	case req.Payload != nil:
		err = s.operations.ImportRemoteEntity(r.Context(), syncID, req.Payload, opts)
	case req.RemoteID != "":
		err = s.operations.ImportRemoteEntityByID(r.Context(), syncID, req.RemoteID, opts)
	default:
		writeError(w, http.StatusBadRequest, "remote_id or payload required")
		return
	}

	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

type queueExportRequest struct {
	EntityTypeID string `json:"entity_type_id"`
	EntityID     string `json:"entity_id"`
}

// handleQueueExport enqueues a deferred export task for a local entity.
func (s *Server) handleQueueExport(w http.ResponseWriter, r *http.Request) {
	var req queueExportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncID := r.PathValue("id")

	// Reject unknown syncs and disabled exports before enqueueing; the
	// worker would only discover them at processing time.
	sync, err := s.syncs.GetSync(r.Context(), syncID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !sync.OperationEnabled(domain.OperationExportEntity) {
		writeError(w, http.StatusConflict, "export not enabled on sync")
		return
	}

	task := domain.NewExportTask(syncID, req.EntityTypeID, req.EntityID)
	if err := task.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.queue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to enqueue task")
		return
	}

	writeJSON(w, http.StatusAccepted, task)
}

// Queue endpoints

// handleQueueStats returns queue statistics.
func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.queue.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read queue stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleGetTask returns the status of one export task.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.queue.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Helpers

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDomainError maps domain sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOperationDisabled):
		writeError(w, http.StatusConflict, "operation disabled")
	case errors.Is(err, domain.ErrConfiguration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
