package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openclaw/dashboard/internal/eventbus"
)

const pingInterval = 15 * time.Second

// handleEvents streams bus events over SSE. Each connection gets an
// immediate hello frame, then every broadcast until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, "retry: 3000\n\n")
	writeSSEFrame(w, helloEvent())
	flusher.Flush()

	events := s.Bus.Subscribe(r.Context())
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// Comment frames keep proxies from idling out the stream.
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case evt, ok := <-events:
			if !ok {
				return
			}
			writeSSEFrame(w, evt)
			flusher.Flush()
		}
	}
}

func helloEvent() eventbus.Event {
	return eventbus.Event{
		Event: eventbus.EventHello,
		Data:  map[string]any{"environment": environment},
		TS:    time.Now().UTC(),
	}
}

func writeSSEFrame(w http.ResponseWriter, evt eventbus.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, payload)
}
