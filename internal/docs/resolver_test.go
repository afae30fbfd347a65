package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openclaw/dashboard/internal/testutil"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	workspace := t.TempDir()
	docsDir := t.TempDir()
	return &Resolver{
		Store:         testutil.OpenTestStore(t),
		WorkspaceRoot: workspace,
		DocsDir:       docsDir,
		DashboardDir:  "ClawDashboard",
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListMergesAllSources(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	if _, err := r.Store.CreateDocument(ctx, "stored doc", "body", ""); err != nil {
		t.Fatalf("create stored: %v", err)
	}
	writeFile(t, filepath.Join(r.WorkspaceRoot, "notes", "plan.md"), "# plan")
	writeFile(t, filepath.Join(r.WorkspaceRoot, "ClawDashboard", "records", "session.md"), "# session")
	writeFile(t, filepath.Join(r.WorkspaceRoot, "ClawDashboard", "internal.md"), "hidden")
	writeFile(t, filepath.Join(r.WorkspaceRoot, "node_modules", "dep", "readme.md"), "excluded")
	writeFile(t, filepath.Join(r.DocsDir, "manual.md"), "# manual")

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	byID := map[string]Info{}
	for _, info := range list {
		byID[info.ID] = info
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(list), byID)
	}

	plan, ok := byID["file:notes/plan.md"]
	if !ok {
		t.Fatalf("workspace file missing from listing")
	}
	if plan.Category != "System" || !plan.System {
		t.Fatalf("workspace file misclassified: %+v", plan)
	}

	record, ok := byID["file:ClawDashboard/records/session.md"]
	if !ok {
		t.Fatalf("record file missing from listing")
	}
	if record.Category != "Records" || record.System {
		t.Fatalf("record misclassified: %+v", record)
	}
	if record.Title != "session.md" {
		t.Fatalf("record title should drop the records prefix, got %q", record.Title)
	}

	if _, ok := byID["docs:manual.md"]; !ok {
		t.Fatalf("backend doc missing from listing")
	}
	if _, ok := byID["file:ClawDashboard/internal.md"]; ok {
		t.Fatalf("dashboard internals must stay hidden")
	}
	if _, ok := byID["file:node_modules/dep/readme.md"]; ok {
		t.Fatalf("excluded directory leaked into listing")
	}
}

func TestContentAcrossKinds(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	doc, err := r.Store.CreateDocument(ctx, "inline", "inline body", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	writeFile(t, filepath.Join(r.WorkspaceRoot, "guide.md"), "workspace body")
	writeFile(t, filepath.Join(r.DocsDir, "ref.md"), "backend body")

	for _, tc := range []struct {
		id   string
		want string
	}{
		{doc2id(doc.ID), "inline body"},
		{"file:guide.md", "workspace body"},
		{"docs:ref.md", "backend body"},
	} {
		ref, err := ParseRef(tc.id)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.id, err)
		}
		got, err := r.Content(ctx, ref)
		if err != nil {
			t.Fatalf("content %q: %v", tc.id, err)
		}
		if got != tc.want {
			t.Fatalf("content %q: got %q want %q", tc.id, got, tc.want)
		}
	}
}

func TestUpdateWorkspaceFileRename(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(r.WorkspaceRoot, "old.md"), "before")

	ref, _ := ParseRef("file:old.md")
	title := "renamed/new.md"
	content := "after"
	if err := r.Update(ctx, ref, &title, &content, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(r.WorkspaceRoot, "renamed", "new.md"))
	if err != nil {
		t.Fatalf("read renamed file: %v", err)
	}
	if string(data) != "after" {
		t.Fatalf("content not written before rename: %q", data)
	}
	if _, err := os.Stat(filepath.Join(r.WorkspaceRoot, "old.md")); !os.IsNotExist(err) {
		t.Fatalf("old file should be gone")
	}
}

func TestCreateWorkspaceFile(t *testing.T) {
	r := newTestResolver(t)

	id, err := r.CreateWorkspaceFile("notes/created.md", "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "file:notes/created.md" {
		t.Fatalf("unexpected id %q", id)
	}
	if _, err := r.CreateWorkspaceFile("../escape.md", "nope"); err == nil {
		t.Fatalf("expected traversal rejection")
	}
}

func TestDeleteByKind(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(r.WorkspaceRoot, "gone.md"), "x")
	ref, _ := ParseRef("file:gone.md")
	if err := r.Delete(ctx, ref); err != nil {
		t.Fatalf("delete workspace file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.WorkspaceRoot, "gone.md")); !os.IsNotExist(err) {
		t.Fatalf("file still present")
	}
	// Deleting it again is tolerated.
	if err := r.Delete(ctx, ref); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	doc, err := r.Store.CreateDocument(ctx, "row", "body", "")
	if err != nil {
		t.Fatalf("create row: %v", err)
	}
	storedRef, _ := ParseRef(doc2id(doc.ID))
	if err := r.Delete(ctx, storedRef); err != nil {
		t.Fatalf("delete stored: %v", err)
	}
	if _, err := r.Store.GetDocument(ctx, doc.ID); err == nil {
		t.Fatalf("row should be gone")
	}
}

func doc2id(id int64) string {
	return Ref{Kind: KindStored, StoreID: id}.String()
}
