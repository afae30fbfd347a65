// Package docs resolves document references across three disjoint identity
// spaces: rows in the documents table, markdown files under the workspace
// root, and files in the backend docs directory.
package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openclaw/dashboard/internal/state"
)

type Resolver struct {
	Store         *state.Store
	WorkspaceRoot string
	DocsDir       string
	// DashboardDir is the workspace subdirectory belonging to the
	// dashboard itself; only its records/ subtree is listed.
	DashboardDir string
}

// Info is one entry of the merged document listing. ID is either a row id
// rendered as a string or a prefixed synthetic id.
type Info struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	IsPinned  bool      `json:"is_pinned"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	System    bool      `json:"isSystem"`
}

// List merges stored document rows with workspace and backend file
// listings into one view. File-backed entries never collide with row ids
// because their ids carry a prefix.
func (r *Resolver) List(ctx context.Context) ([]Info, error) {
	rows, err := r.Store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(rows))
	for _, doc := range rows {
		out = append(out, Info{
			ID:        fmt.Sprintf("%d", doc.ID),
			Title:     doc.Title,
			Category:  doc.Category,
			IsPinned:  doc.IsPinned,
			SortOrder: doc.SortOrder,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}

	recordsPrefix := ""
	if r.DashboardDir != "" {
		recordsPrefix = r.DashboardDir + "/records/"
	}
	for _, f := range scanWorkspace(r.WorkspaceRoot, r.DashboardDir) {
		isRecord := recordsPrefix != "" && len(f.Rel) > len(recordsPrefix) && f.Rel[:len(recordsPrefix)] == recordsPrefix
		title := f.Rel
		category := "System"
		if isRecord {
			title = f.Rel[len(recordsPrefix):]
			category = "Records"
		}
		out = append(out, Info{
			ID:        workspacePrefix + f.Rel,
			Title:     title,
			Category:  category,
			CreatedAt: f.ModTime,
			UpdatedAt: f.ModTime,
			System:    !isRecord,
		})
	}

	for _, f := range scanBackendDocs(r.DocsDir) {
		out = append(out, Info{
			ID:        backendPrefix + f.Rel,
			Title:     f.Rel,
			Category:  "Docs",
			CreatedAt: f.ModTime,
			UpdatedAt: f.ModTime,
		})
	}

	return out, nil
}

// Content returns the document body for any reference kind. A stored row
// without inline content falls back to its backing file when one exists.
func (r *Resolver) Content(ctx context.Context, ref Ref) (string, error) {
	switch ref.Kind {
	case KindWorkspace:
		data, err := os.ReadFile(filepath.Join(r.WorkspaceRoot, filepath.FromSlash(ref.Path)))
		if err != nil {
			return "", fmt.Errorf("read workspace file: %w", err)
		}
		return string(data), nil
	case KindBackend:
		data, err := os.ReadFile(filepath.Join(r.DocsDir, filepath.FromSlash(ref.Path)))
		if err != nil {
			return "", fmt.Errorf("read backend doc: %w", err)
		}
		return string(data), nil
	default:
		doc, err := r.Store.GetDocument(ctx, ref.StoreID)
		if err != nil {
			return "", err
		}
		if doc.Content == "" && doc.Filename != "" {
			data, err := os.ReadFile(filepath.Join(r.DocsDir, doc.Filename))
			if err == nil {
				return string(data), nil
			}
		}
		return doc.Content, nil
	}
}

// Update writes new content and/or renames a file-backed document; for a
// stored row it applies a partial field update.
func (r *Resolver) Update(ctx context.Context, ref Ref, title, content, category *string) error {
	switch ref.Kind {
	case KindWorkspace:
		return r.updateFile(r.WorkspaceRoot, ref.Path, title, content)
	case KindBackend:
		return r.updateFile(r.DocsDir, ref.Path, title, content)
	default:
		return r.Store.UpdateDocument(ctx, ref.StoreID, state.DocumentUpdate{
			Title:    title,
			Content:  content,
			Category: category,
		})
	}
}

func (r *Resolver) updateFile(root, rel string, title, content *string) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if content != nil {
		if err := os.WriteFile(full, []byte(*content), 0o644); err != nil {
			return fmt.Errorf("write doc file: %w", err)
		}
	}
	if title != nil && *title != "" && *title != rel {
		if err := checkRelPath(*title); err != nil {
			return err
		}
		next := filepath.Join(root, filepath.FromSlash(*title))
		if err := os.MkdirAll(filepath.Dir(next), 0o755); err != nil {
			return fmt.Errorf("create doc dir: %w", err)
		}
		if err := os.Rename(full, next); err != nil {
			return fmt.Errorf("rename doc file: %w", err)
		}
	}
	return nil
}

// CreateWorkspaceFile writes a new markdown file under the workspace root
// and returns its synthetic id.
func (r *Resolver) CreateWorkspaceFile(relPath, content string) (string, error) {
	if err := checkRelPath(relPath); err != nil {
		return "", err
	}
	full := filepath.Join(r.WorkspaceRoot, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create workspace dir: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write workspace file: %w", err)
	}
	return workspacePrefix + filepath.ToSlash(relPath), nil
}

// Delete removes the referenced document. Deleting a stored row also
// removes its backing file when one is recorded; the row removal itself
// never fails on a missing file.
func (r *Resolver) Delete(ctx context.Context, ref Ref) error {
	switch ref.Kind {
	case KindWorkspace:
		err := os.Remove(filepath.Join(r.WorkspaceRoot, filepath.FromSlash(ref.Path)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove workspace file: %w", err)
		}
		return nil
	case KindBackend:
		err := os.Remove(filepath.Join(r.DocsDir, filepath.FromSlash(ref.Path)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove backend doc: %w", err)
		}
		return nil
	default:
		doc, err := r.Store.GetDocument(ctx, ref.StoreID)
		if err != nil && err != state.ErrNotFound {
			return err
		}
		if err := r.Store.DeleteDocument(ctx, ref.StoreID); err != nil {
			return err
		}
		if doc.Filename != "" {
			if rmErr := os.Remove(filepath.Join(r.DocsDir, doc.Filename)); rmErr == nil {
				_ = r.Store.AddLog(ctx, "File Deleted", "Removed file: "+doc.Filename, "document")
			}
		}
		return nil
	}
}
