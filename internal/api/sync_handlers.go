package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/state"
)

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	logs, err := s.Store.ListLogs(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if logs == nil {
		logs = []state.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleSyncExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	export, err := s.Store.ExportSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         export.ID,
		"exportedAt": export.ExportedAt,
		"dbType":     "sqlite",
		"data":       export.Data,
	})
}

func (s *Server) handleSyncImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var body struct {
		Data     *state.SnapshotData `json:"data"`
		Strategy string              `json:"strategy"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Data == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No data provided"})
		return
	}
	strategy := body.Strategy
	if strategy == "" {
		strategy = state.StrategyLastWriteWins
	}
	counts, err := s.Store.ImportSnapshot(r.Context(), *body.Data, strategy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logActivity(r, "Sync Import",
		fmt.Sprintf("Imported %d tasks, %d documents (%s)", counts.Tasks, counts.Documents, strategy), "sync")
	if counts.Tasks > 0 {
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "sync.import", "count": counts.Tasks, "strategy": strategy})
	}
	if counts.Documents > 0 {
		s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "sync.import", "count": counts.Documents, "strategy": strategy})
	}
	if counts.Status > 0 {
		s.Bus.Broadcast(eventbus.EventStatusUpdated, map[string]any{"source": "sync.import", "strategy": strategy})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imported": counts, "strategy": strategy})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	status, err := s.Store.SyncStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"counts":      status.Counts,
		"lastUpdated": status.LastUpdated,
		"dbType":      "sqlite",
		"environment": environment,
		"timestamp":   time.Now().UTC(),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		models, err := s.Store.ListModelUsage(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if models == nil {
			models = []state.ModelUsage{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": models})
	case http.MethodPost:
		var body struct {
			Provider string `json:"provider"`
			Model    string `json:"model"`
			UsagePct int    `json:"usage_pct"`
			CDReset  string `json:"cd_reset"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.Provider == "" || body.Model == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing provider or model"})
			return
		}
		if err := s.Store.UpsertModelUsage(r.Context(), body.Provider, body.Model, body.UsagePct, body.CDReset); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.Bus.Broadcast(eventbus.EventModelsUpdated, map[string]any{
			"provider":  body.Provider,
			"model":     body.Model,
			"usage_pct": body.UsagePct,
			"cd_reset":  body.CDReset,
		})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeMethodNotAllowed(w)
	}
}
