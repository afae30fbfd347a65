package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Server serves the dashboard SPA build from disk. The UI polls and
// subscribes against the API, so responses must never be cached. Paths
// that do not match a file on disk fall back to index.html, which lets
// the SPA handle its own client-side routes.
type Server struct {
	Dir string
}

func (s *Server) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.Dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if s.wantsIndexFallback(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(s.Dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// wantsIndexFallback reports whether the request path is a client-side
// route rather than an asset on disk.
func (s *Server) wantsIndexFallback(urlPath string) bool {
	if urlPath == "/" {
		return false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.Dir, rel))
	return os.IsNotExist(err)
}
