package testutil

import (
	"path/filepath"
	"testing"

	"github.com/openclaw/dashboard/internal/state"
)

func OpenTestStore(t *testing.T) *state.Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := state.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return state.NewStore(db)
}
