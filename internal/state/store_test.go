package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestTaskLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	task, err := store.CreateTask(ctx, "Fix the build", "CI is red", "", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if task.Status != "todo" || task.Priority != "medium" {
		t.Fatalf("expected defaults, got %s/%s", task.Status, task.Priority)
	}

	next := "in_progress"
	if err := store.UpdateTask(ctx, task.ID, TaskUpdate{Status: &next}); err != nil {
		t.Fatalf("update task: %v", err)
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != "in_progress" {
		t.Fatalf("expected in_progress, got %s", got.Status)
	}
	if got.Title != "Fix the build" || got.Description != "CI is red" {
		t.Fatalf("unexpected task fields: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("updated_at before created_at")
	}

	if err := store.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := store.GetTask(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskMissingRow(t *testing.T) {
	store := openTestStore(t)
	title := "nope"
	err := store.UpdateTask(context.Background(), 9999, TaskUpdate{Title: &title})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskEmptyIsNoop(t *testing.T) {
	store := openTestStore(t)
	if err := store.UpdateTask(context.Background(), 9999, TaskUpdate{}); err != nil {
		t.Fatalf("empty update should be a noop, got %v", err)
	}
}

func TestListTasksNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.CreateTask(ctx, title, "", "", ""); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "third" {
		t.Fatalf("expected newest first, got %s", tasks[0].Title)
	}
}

func TestStatusSingleton(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	st, err := store.GetStatus(ctx)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if st.State != "idle" {
		t.Fatalf("expected seeded idle, got %s", st.State)
	}

	working := "working"
	if err := store.UpdateStatus(ctx, &working, nil); err != nil {
		t.Fatalf("update state: %v", err)
	}
	agent := "Claw"
	if err := store.UpdateStatus(ctx, nil, &agent); err != nil {
		t.Fatalf("update agent: %v", err)
	}

	st, err = store.GetStatus(ctx)
	if err != nil {
		t.Fatalf("get status again: %v", err)
	}
	if st.State != "working" || st.ActiveAgent != "Claw" {
		t.Fatalf("partial updates lost: %+v", st)
	}
}

func TestAgentStateUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.UpsertAgentState(ctx, "builder", "running"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertAgentState(ctx, "builder", "idle"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	agents, err := store.ListAgentStates(ctx)
	if err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("expected one row per agent, got %d", len(agents))
	}
	if agents[0].State != "idle" {
		t.Fatalf("expected last write, got %s", agents[0].State)
	}
}

func TestListLogsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.AddLog(ctx, "Entry", "detail", ""); err != nil {
			t.Fatalf("add log: %v", err)
		}
	}

	logs, err := store.ListLogs(ctx, 3)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected limit applied, got %d", len(logs))
	}
	if logs[0].Type != "info" {
		t.Fatalf("expected default type info, got %s", logs[0].Type)
	}
}

func TestModelUsageUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.UpsertModelUsage(ctx, "anthropic", "opus", 40, ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertModelUsage(ctx, "anthropic", "opus", 75, "18:00"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	models, err := store.ListModelUsage(ctx)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected one row per provider/model, got %d", len(models))
	}
	if models[0].UsagePct != 75 || models[0].CooldownResetAt != "18:00" {
		t.Fatalf("expected overwrite, got %+v", models[0])
	}
}

func TestDocumentOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a, err := store.CreateDocument(ctx, "alpha", "content a", "")
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	b, err := store.CreateDocument(ctx, "beta", "content b", "Notes")
	if err != nil {
		t.Fatalf("create beta: %v", err)
	}
	if a.Category != "Guide" {
		t.Fatalf("expected default category, got %s", a.Category)
	}

	if err := store.SetDocumentPinned(ctx, a.ID, true); err != nil {
		t.Fatalf("pin: %v", err)
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].ID != a.ID {
		t.Fatalf("expected pinned doc first")
	}
	// The listing omits content; fetch for the full row.
	full, err := store.GetDocument(ctx, b.ID)
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	if full.Content != "content b" || full.Category != "Notes" {
		t.Fatalf("unexpected doc: %+v", full)
	}
}
