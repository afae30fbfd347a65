package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/openclaw/dashboard/internal/roster"
	"github.com/openclaw/dashboard/internal/status"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap := s.Status.Get(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      snap.State,
			"activeAgent": snap.ActiveAgent,
			"agents":      snap.Agents,
			"uptime":      time.Since(s.StartedAt).Seconds(),
			"timestamp":   snap.UpdatedAt,
			"environment": environment,
		})
	case http.MethodPut:
		var body struct {
			State        *string `json:"state"`
			LegacyStatus *string `json:"status"`
			ActiveAgent  *string `json:"activeAgent"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		// Older clients send the state under the "status" key.
		next := body.State
		if next == nil {
			next = body.LegacyStatus
		}
		if err := s.Status.SetStatus(r.Context(), next, body.ActiveAgent); err != nil {
			if errors.Is(err, status.ErrInvalid) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing state or activeAgent"})
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp := map[string]any{"success": true}
		if next != nil {
			resp["state"] = *next
		}
		if body.ActiveAgent != nil {
			resp["activeAgent"] = *body.ActiveAgent
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var body struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Status.SetAgentState(r.Context(), body.Name, body.State); err != nil {
		if errors.Is(err, status.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing name or state"})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "name": body.Name, "state": body.State})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	agents := roster.Load(s.AgentsConfig)
	if agents == nil {
		agents = []roster.Agent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": agents})
}
