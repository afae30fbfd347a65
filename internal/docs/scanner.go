package docs

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// workspaceExclude lists directory names skipped during the workspace scan.
var workspaceExclude = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".openclaw":    {},
	"dist":         {},
	"build":        {},
}

type fileInfo struct {
	Rel     string
	ModTime time.Time
}

// scanWorkspace collects markdown files under root. The dashboard's own
// directory is skipped except for its records/ subtree, which holds
// user-visible record documents.
func scanWorkspace(root, dashboardDir string) []fileInfo {
	var out []fileInfo
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())

			if entry.IsDir() && dashboardDir != "" && entry.Name() == dashboardDir {
				walk(filepath.Join(full, "records"))
				continue
			}
			if _, skip := workspaceExclude[entry.Name()]; skip {
				continue
			}

			if entry.IsDir() {
				walk(full)
				continue
			}
			if !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			rel, err := filepath.Rel(root, full)
			if err != nil {
				continue
			}
			out = append(out, fileInfo{Rel: filepath.ToSlash(rel), ModTime: info.ModTime()})
		}
	}
	walk(root)
	return out
}

// scanBackendDocs lists markdown files in the backend docs directory
// (non-recursive).
func scanBackendDocs(dir string) []fileInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, fileInfo{Rel: entry.Name(), ModTime: info.ModTime()})
	}
	return out
}
