package mcptools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/status"
	"github.com/openclaw/dashboard/internal/testutil"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	store := testutil.OpenTestStore(t)
	return Deps{
		Store:  store,
		Status: status.NewManager(store, eventbus.NewBus(), "Claw"),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("empty result content")
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestCreateAndListTasks(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	res, err := wrapCreateTask(deps)(ctx, callRequest(map[string]any{
		"title":    "wire the webhook",
		"priority": "high",
	}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.IsError {
		t.Fatalf("create failed: %s", resultText(t, res))
	}

	res, err = wrapListTasks(deps)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(resultText(t, res), "wire the webhook") {
		t.Fatalf("created task missing from listing: %s", resultText(t, res))
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	deps := newTestDeps(t)
	res, err := wrapCreateTask(deps)(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for missing title")
	}
}

func TestSetAndGetStatus(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	res, err := wrapSetStatus(deps)(ctx, callRequest(map[string]any{
		"state":        "working",
		"active_agent": "builder",
	}))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if res.IsError {
		t.Fatalf("set failed: %s", resultText(t, res))
	}

	res, err = wrapGetStatus(deps)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "working") || !strings.Contains(text, "builder") {
		t.Fatalf("status not reflected: %s", text)
	}
}

func TestUpdateMissingTaskIsToolError(t *testing.T) {
	deps := newTestDeps(t)
	res, err := wrapUpdateTask(deps)(context.Background(), callRequest(map[string]any{
		"id":     999,
		"status": "done",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for missing task")
	}
}
