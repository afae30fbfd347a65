package docs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// RefKind selects which backing store a document reference resolves against.
type RefKind int

const (
	// KindStored is a row in the documents table, addressed by integer id.
	KindStored RefKind = iota
	// KindWorkspace is a markdown file under the workspace root,
	// addressed as file:<relpath>.
	KindWorkspace
	// KindBackend is a file in the backend docs directory,
	// addressed as docs:<filename>.
	KindBackend
)

const (
	workspacePrefix = "file:"
	backendPrefix   = "docs:"
)

// Ref is a parsed document reference. The three identity spaces are
// disjoint by construction: stored ids are integers, file ids carry a
// prefix.
type Ref struct {
	Kind    RefKind
	StoreID int64
	Path    string
}

func (r Ref) String() string {
	switch r.Kind {
	case KindWorkspace:
		return workspacePrefix + r.Path
	case KindBackend:
		return backendPrefix + r.Path
	default:
		return strconv.FormatInt(r.StoreID, 10)
	}
}

// ParseRef decodes a document id into its identity space. Relative paths
// escaping their root are rejected.
func ParseRef(id string) (Ref, error) {
	switch {
	case strings.HasPrefix(id, workspacePrefix):
		rel := strings.TrimPrefix(id, workspacePrefix)
		if err := checkRelPath(rel); err != nil {
			return Ref{}, err
		}
		return Ref{Kind: KindWorkspace, Path: rel}, nil
	case strings.HasPrefix(id, backendPrefix):
		name := strings.TrimPrefix(id, backendPrefix)
		if err := checkRelPath(name); err != nil {
			return Ref{}, err
		}
		return Ref{Kind: KindBackend, Path: name}, nil
	default:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid document id %q", id)
		}
		return Ref{Kind: KindStored, StoreID: n}, nil
	}
}

func checkRelPath(rel string) error {
	if rel == "" {
		return fmt.Errorf("empty document path")
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("document path %q escapes its root", rel)
	}
	return nil
}
