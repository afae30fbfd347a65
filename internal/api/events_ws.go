package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/openclaw/dashboard/internal/eventbus"
)

type wsWriter interface {
	Write(ctx context.Context, msgType websocket.MessageType, data []byte) error
}

// handleEventsWS mirrors the SSE stream over WebSocket for clients that
// cannot hold an EventSource open.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := r.Context()
	if err := streamEvents(ctx, s.Bus, conn); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "stream error")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")
}

func streamEvents(ctx context.Context, bus *eventbus.Bus, writer wsWriter) error {
	if err := writeWSEvent(ctx, writer, helloEvent()); err != nil {
		return err
	}
	sub := bus.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-sub:
			if !ok {
				return nil
			}
			if err := writeWSEvent(ctx, writer, evt); err != nil {
				return err
			}
		}
	}
}

func writeWSEvent(ctx context.Context, writer wsWriter, evt eventbus.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return writer.Write(ctx, websocket.MessageText, payload)
}
