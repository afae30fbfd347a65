package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/state"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tasks, err := s.Store.ListTasks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if tasks == nil {
			tasks = []state.Task{}
		}
		writeJSON(w, http.StatusOK, tasks)
	case http.MethodPost:
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Status      string `json:"status"`
			Priority    string `json:"priority"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if strings.TrimSpace(body.Title) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing title"})
			return
		}
		task, err := s.Store.CreateTask(r.Context(), body.Title, body.Description, body.Status, body.Priority)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logActivity(r, "Task Created", task.Title, "task")
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "task.create", "id": task.ID})
		writeJSON(w, http.StatusOK, task)
	default:
		writeMethodNotAllowed(w)
	}
}

func (s *Server) handleTaskItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(strings.TrimPrefix(r.URL.Path, "/api/tasks/"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid task id"})
		return
	}

	switch r.Method {
	case http.MethodPut:
		var upd state.TaskUpdate
		if err := decodeJSON(r.Body, &upd); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.Store.UpdateTask(r.Context(), id, upd); err != nil {
			writeStoreError(w, err)
			return
		}
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "task.update", "id": id})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if err := s.Store.DeleteTask(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logActivity(r, "Task Deleted", fmt.Sprintf("Task #%d removed", id), "task")
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "task.delete", "id": id})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeMethodNotAllowed(w)
	}
}

// logActivity records an activity-feed entry. Log failures never fail
// the request that triggered them.
func (s *Server) logActivity(r *http.Request, title, description, logType string) {
	if err := s.Store.AddLog(r.Context(), title, description, logType); err != nil {
		log.Printf("activity log failed: %v", err)
	}
}
