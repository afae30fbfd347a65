package state

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestImportReplace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTask(ctx, "local", "", "", ""); err != nil {
		t.Fatalf("create local task: %v", err)
	}

	ts := formatTime(time.Now().UTC())
	counts, err := store.ImportSnapshot(ctx, SnapshotData{
		Tasks: []TaskRecord{
			{ID: 42, Title: "foreign", Status: "done", Priority: "high", CreatedAt: ts, UpdatedAt: ts},
		},
	}, StrategyReplace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if counts.Tasks != 1 {
		t.Fatalf("expected 1 imported task, got %d", counts.Tasks)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("replace should wipe local rows, got %d", len(tasks))
	}
	if tasks[0].ID != 42 || tasks[0].Title != "foreign" {
		t.Fatalf("foreign row not kept verbatim: %+v", tasks[0])
	}
}

func TestImportReplaceEmptyClears(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTask(ctx, "local", "", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.ImportSnapshot(ctx, SnapshotData{Tasks: []TaskRecord{}}, StrategyReplace); err != nil {
		t.Fatalf("import: %v", err)
	}
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty board after replace, got %d rows", len(tasks))
	}
}

func TestImportLastWriteWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	local, err := store.CreateTask(ctx, "local title", "", "todo", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stale := formatTime(time.Now().Add(-time.Hour).UTC())
	fresh := formatTime(time.Now().Add(time.Hour).UTC())

	// A stale foreign copy must not clobber the local row.
	counts, err := store.ImportSnapshot(ctx, SnapshotData{
		Tasks: []TaskRecord{{ID: local.ID, Title: "stale", CreatedAt: stale, UpdatedAt: stale}},
	}, StrategyLastWriteWins)
	if err != nil {
		t.Fatalf("stale import: %v", err)
	}
	if counts.Tasks != 0 {
		t.Fatalf("stale record should be skipped, counted %d", counts.Tasks)
	}
	got, _ := store.GetTask(ctx, local.ID)
	if got.Title != "local title" {
		t.Fatalf("stale import overwrote local row: %q", got.Title)
	}

	// A newer foreign copy overwrites the mutable fields.
	counts, err = store.ImportSnapshot(ctx, SnapshotData{
		Tasks: []TaskRecord{{ID: local.ID, Title: "fresher", Status: "done", CreatedAt: stale, UpdatedAt: fresh}},
	}, StrategyLastWriteWins)
	if err != nil {
		t.Fatalf("fresh import: %v", err)
	}
	if counts.Tasks != 1 {
		t.Fatalf("fresh record should be merged, counted %d", counts.Tasks)
	}
	got, _ = store.GetTask(ctx, local.ID)
	if got.Title != "fresher" || got.Status != "done" {
		t.Fatalf("fresh import not applied: %+v", got)
	}
	if got.ID != local.ID {
		t.Fatalf("merge must preserve the local id")
	}
}

func TestImportMergeInsertsUnknownRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ts := formatTime(time.Now().UTC())
	counts, err := store.ImportSnapshot(ctx, SnapshotData{
		Documents: []DocumentRecord{{ID: 7, Title: "runbook", Content: "steps", Category: "Guide", CreatedAt: ts, UpdatedAt: ts}},
	}, StrategyLastWriteWins)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if counts.Documents != 1 {
		t.Fatalf("expected 1 document, got %d", counts.Documents)
	}
	doc, err := store.GetDocument(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Content != "steps" {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestImportStatusAlwaysApplies(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := formatTime(time.Now().Add(-24 * time.Hour).UTC())
	counts, err := store.ImportSnapshot(ctx, SnapshotData{
		Status: &StatusRecord{State: "working", ActiveAgent: "remote", UpdatedAt: old},
	}, StrategyLastWriteWins)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if counts.Status != 1 {
		t.Fatalf("expected status counted")
	}
	st, err := store.GetStatus(ctx)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if st.State != "working" || st.ActiveAgent != "remote" {
		t.Fatalf("status not applied: %+v", st)
	}
}

func TestExportSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTask(ctx, "keep me", "body", "", ""); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := store.CreateDocument(ctx, "readme", "text", ""); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	export, err := store.ExportSnapshot(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.ID == "" {
		t.Fatalf("expected export id")
	}
	if len(export.Data.Tasks) != 1 || len(export.Data.Documents) != 1 {
		t.Fatalf("unexpected export contents: %+v", export.Data)
	}
	if export.Data.Status == nil {
		t.Fatalf("expected status in export")
	}

	// A fresh store fed the export reproduces the board.
	other := openTestStore(t)
	if _, err := other.ImportSnapshot(ctx, export.Data, StrategyReplace); err != nil {
		t.Fatalf("import into fresh store: %v", err)
	}
	tasks, err := other.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "keep me" {
		t.Fatalf("round trip lost the task: %+v", tasks)
	}
}

func TestSyncStatusCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTask(ctx, "one", "", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddLog(ctx, "Entry", "", ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	status, err := store.SyncStatus(ctx)
	if err != nil {
		t.Fatalf("sync status: %v", err)
	}
	if status.Counts["tasks"] != 1 {
		t.Fatalf("expected task counted, got %+v", status.Counts)
	}
	if status.LastUpdated["tasks"] == "" {
		t.Fatalf("expected lastUpdated for tasks")
	}
}

func TestBoolishAcceptsNumbersAndBools(t *testing.T) {
	var rec TaskRecord
	if err := json.Unmarshal([]byte(`{"id":1,"title":"a","checked":1}`), &rec); err != nil {
		t.Fatalf("numeric checked: %v", err)
	}
	if !bool(rec.Checked) {
		t.Fatalf("expected 1 to read as true")
	}
	if err := json.Unmarshal([]byte(`{"id":1,"title":"a","checked":false}`), &rec); err != nil {
		t.Fatalf("bool checked: %v", err)
	}
	if bool(rec.Checked) {
		t.Fatalf("expected false to read as false")
	}
}
