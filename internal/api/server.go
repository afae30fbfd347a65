package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openclaw/dashboard/internal/docs"
	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/state"
	"github.com/openclaw/dashboard/internal/status"
)

const environment = "local"

type Server struct {
	Store        *state.Store
	Status       *status.Manager
	Bus          *eventbus.Bus
	Docs         *docs.Resolver
	AgentsConfig string
	StartedAt    time.Time
	Version      string
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/status/agent", s.handleAgentStatus)
	mux.HandleFunc("/api/agents", s.handleAgents)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/events/ws", s.handleEventsWS)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/", s.handleTaskItem)
	mux.HandleFunc("/api/webhook/message", s.handleWebhookMessage)
	mux.HandleFunc("/api/docs", s.handleDocs)
	mux.HandleFunc("/api/docs/content", s.handleDocContent)
	mux.HandleFunc("/api/docs/file", s.handleDocFile)
	mux.HandleFunc("/api/docs/reorder", s.handleDocReorder)
	mux.HandleFunc("/api/docs/", s.handleDocItem)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/api/sync/export", s.handleSyncExport)
	mux.HandleFunc("/api/sync/import", s.handleSyncImport)
	mux.HandleFunc("/api/sync/status", s.handleSyncStatus)
	mux.HandleFunc("/api/models", s.handleModels)

	return corsMiddleware(mux)
}

// corsMiddleware admits browser requests from localhost origins only;
// this is a single-operator local control surface.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HealthHandler answers with the service descriptor.
func (s *Server) HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":        "Claw Dashboard API",
			"status":      "online",
			"version":     s.Version,
			"environment": environment,
		})
	})
}

func decodeJSON(body io.Reader, dest any) error {
	return json.NewDecoder(body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeStoreError maps store failures onto the HTTP taxonomy: missing
// rows are 404, everything else is a 500 with the message passed through.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, state.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
