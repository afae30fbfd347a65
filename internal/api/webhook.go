package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/openclaw/dashboard/internal/eventbus"
)

// webhookStatus maps an agent lifecycle stage onto the task status it
// drives the referenced task into.
var webhookStatus = map[string]string{
	"started":   "in_progress",
	"completed": "done",
}

// handleWebhookMessage ingests agent lifecycle notifications. A
// "received" message opens a task from the message text; "started" and
// "completed" advance an existing task through its lifecycle.
func (s *Server) handleWebhookMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var body struct {
		Text   string `json:"text"`
		Stage  string `json:"stage"`
		TaskID *int64 `json:"taskId"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stage := body.Stage
	if stage == "" {
		stage = "received"
	}

	switch stage {
	case "received":
		title := summarize(body.Text)
		task, err := s.Store.CreateTask(r.Context(), title, body.Text, "todo", "medium")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logActivity(r, "Message Received", title, "webhook")
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "webhook.received", "id": task.ID})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "task": task})
	case "started", "completed":
		if body.TaskID == nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing taskId"})
			return
		}
		if err := s.Store.SetTaskStatus(r.Context(), *body.TaskID, webhookStatus[stage]); err != nil {
			writeStoreError(w, err)
			return
		}
		logTitle := "Task Started"
		if stage == "completed" {
			logTitle = "Task Completed"
		}
		s.logActivity(r, logTitle, fmt.Sprintf("Task #%d %s", *body.TaskID, stage), "webhook")
		s.Bus.Broadcast(eventbus.EventTasksUpdated, map[string]any{"source": "webhook." + stage, "id": *body.TaskID})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "taskId": *body.TaskID})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Unknown stage: " + stage})
	}
}

// summarize derives a task title from message text: the first line,
// capped at 120 characters.
func summarize(text string) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		return "New task"
	}
	// Truncation must land on a rune boundary, not a byte offset.
	if runes := []rune(line); len(runes) > 120 {
		line = string(runes[:120])
	}
	return line
}
