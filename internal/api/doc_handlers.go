package api

import (
	"net/http"
	"strings"

	"github.com/openclaw/dashboard/internal/docs"
	"github.com/openclaw/dashboard/internal/eventbus"
)

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.Docs.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if list == nil {
			list = []docs.Info{}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var body struct {
			Title     string `json:"title"`
			Content   string `json:"content"`
			Category  string `json:"category"`
			WritePath string `json:"writePath"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.WritePath != "" {
			id, err := s.Docs.CreateWorkspaceFile(body.WritePath, body.Content)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			s.logActivity(r, "Document Created", body.WritePath, "document")
			s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.create", "id": id})
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
			return
		}
		if strings.TrimSpace(body.Title) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing title"})
			return
		}
		doc, err := s.Store.CreateDocument(r.Context(), body.Title, body.Content, body.Category)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logActivity(r, "Document Created", doc.Title, "document")
		s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.create", "id": doc.ID})
		writeJSON(w, http.StatusOK, doc)
	default:
		writeMethodNotAllowed(w)
	}
}

func (s *Server) handleDocContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	ref, err := docs.ParseRef(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	content, err := s.Docs.Content(r.Context(), ref)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": ref.String(), "content": content})
}

// handleDocFile updates a file-backed document addressed in the request
// body rather than the path, since file ids contain slashes.
func (s *Server) handleDocFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}
	var body struct {
		ID      string  `json:"id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ref, err := docs.ParseRef(body.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if ref.Kind == docs.KindStored {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Not a file-backed document"})
		return
	}
	if err := s.Docs.Update(r.Context(), ref, body.Title, body.Content, nil); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.update", "id": body.ID})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDocReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}
	var body struct {
		Orders []struct {
			ID        string `json:"id"`
			SortOrder int    `json:"sort_order"`
		} `json:"orders"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	for _, o := range body.Orders {
		ref, err := docs.ParseRef(o.ID)
		if err != nil || ref.Kind != docs.KindStored {
			// File-backed entries keep their listing order.
			continue
		}
		if err := s.Store.SetDocumentSortOrder(r.Context(), ref.StoreID, o.SortOrder); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.reorder"})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDocItem(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimPrefix(r.URL.Path, "/api/docs/")
	pin := false
	if strings.HasSuffix(rawID, "/pin") {
		rawID = strings.TrimSuffix(rawID, "/pin")
		pin = true
	}
	ref, err := docs.ParseRef(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if pin {
		if r.Method != http.MethodPut {
			writeMethodNotAllowed(w)
			return
		}
		if ref.Kind != docs.KindStored {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Workspace files cannot be pinned"})
			return
		}
		var body struct {
			IsPinned bool `json:"is_pinned"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.Store.SetDocumentPinned(r.Context(), ref.StoreID, body.IsPinned); err != nil {
			writeStoreError(w, err)
			return
		}
		s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.pin", "id": rawID})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body struct {
			Title    *string `json:"title"`
			Content  *string `json:"content"`
			Category *string `json:"category"`
		}
		if err := decodeJSON(r.Body, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.Docs.Update(r.Context(), ref, body.Title, body.Content, body.Category); err != nil {
			writeStoreError(w, err)
			return
		}
		s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.update", "id": rawID})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if err := s.Docs.Delete(r.Context(), ref); err != nil {
			writeStoreError(w, err)
			return
		}
		s.logActivity(r, "Document Deleted", rawID, "document")
		s.Bus.Broadcast(eventbus.EventDocsUpdated, map[string]any{"source": "doc.delete", "id": rawID})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeMethodNotAllowed(w)
	}
}
