// Package mcptools exposes the dashboard over MCP so an agent can read
// and drive the same state the HTTP API serves.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openclaw/dashboard/internal/state"
	"github.com/openclaw/dashboard/internal/status"
)

// Deps carries the shared state the tool handlers operate on.
type Deps struct {
	Store  *state.Store
	Status *status.Manager
}

type SetStatusArgs struct {
	State       string `json:"state" jsonschema:"description=Global status value (idle/active/working)"`
	ActiveAgent string `json:"active_agent" jsonschema:"description=Name of the agent currently in the foreground"`
}

type SetAgentStateArgs struct {
	Name  string `json:"name" jsonschema:"required,description=Agent name"`
	State string `json:"state" jsonschema:"required,description=New state for the agent"`
}

type CreateTaskArgs struct {
	Title       string `json:"title" jsonschema:"required,description=Task title"`
	Description string `json:"description" jsonschema:"description=Longer task description"`
	Status      string `json:"status" jsonschema:"default=todo,enum=todo,enum=in_progress,enum=done,description=Initial status"`
	Priority    string `json:"priority" jsonschema:"default=medium,enum=high,enum=medium,enum=low,description=Priority"`
}

type UpdateTaskArgs struct {
	ID       int64   `json:"id" jsonschema:"required,description=Task id"`
	Title    *string `json:"title" jsonschema:"description=New title"`
	Status   *string `json:"status" jsonschema:"description=New status"`
	Priority *string `json:"priority" jsonschema:"description=New priority"`
	Checked  *bool   `json:"checked" jsonschema:"description=Checklist state"`
}

type ListLogsArgs struct {
	Limit int `json:"limit" jsonschema:"default=50,description=Maximum number of entries"`
}

// Register wires every dashboard tool onto the MCP server.
func Register(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("dashboard_get_status",
		mcp.WithDescription("Read the global dashboard status: current state, active agent and per-agent states."),
	), wrapGetStatus(deps))

	s.AddTool(mcp.NewTool("dashboard_set_status",
		mcp.WithDescription("Update the global status and/or the active agent. At least one field is required."),
		mcp.WithInputSchema[SetStatusArgs](),
	), wrapSetStatus(deps))

	s.AddTool(mcp.NewTool("dashboard_set_agent_state",
		mcp.WithDescription("Set one agent's state in the per-agent state map."),
		mcp.WithInputSchema[SetAgentStateArgs](),
	), wrapSetAgentState(deps))

	s.AddTool(mcp.NewTool("dashboard_list_tasks",
		mcp.WithDescription("List all tasks, newest first."),
	), wrapListTasks(deps))

	s.AddTool(mcp.NewTool("dashboard_create_task",
		mcp.WithDescription("Create a task on the board."),
		mcp.WithInputSchema[CreateTaskArgs](),
	), wrapCreateTask(deps))

	s.AddTool(mcp.NewTool("dashboard_update_task",
		mcp.WithDescription("Update fields of an existing task."),
		mcp.WithInputSchema[UpdateTaskArgs](),
	), wrapUpdateTask(deps))

	s.AddTool(mcp.NewTool("dashboard_list_logs",
		mcp.WithDescription("Read recent activity log entries, newest first."),
		mcp.WithInputSchema[ListLogsArgs](),
	), wrapListLogs(deps))
}

func wrapGetStatus(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap := deps.Status.Get(ctx)
		return jsonResult(snap)
	}
}

func wrapSetStatus(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SetStatusArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		var newState, activeAgent *string
		if args.State != "" {
			newState = &args.State
		}
		if args.ActiveAgent != "" {
			activeAgent = &args.ActiveAgent
		}
		if err := deps.Status.SetStatus(ctx, newState, activeAgent); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("set status: %v", err)), nil
		}
		return mcp.NewToolResultText("status updated"), nil
	}
}

func wrapSetAgentState(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SetAgentStateArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if err := deps.Status.SetAgentState(ctx, args.Name, args.State); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("set agent state: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("agent %s -> %s", args.Name, args.State)), nil
	}
}

func wrapListTasks(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := deps.Store.ListTasks(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list tasks: %v", err)), nil
		}
		return jsonResult(tasks)
	}
}

func wrapCreateTask(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateTaskArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Title == "" {
			return mcp.NewToolResultError("title is required"), nil
		}
		task, err := deps.Store.CreateTask(ctx, args.Title, args.Description, args.Status, args.Priority)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("create task: %v", err)), nil
		}
		return jsonResult(task)
	}
}

func wrapUpdateTask(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args UpdateTaskArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		upd := state.TaskUpdate{
			Title:    args.Title,
			Status:   args.Status,
			Priority: args.Priority,
			Checked:  args.Checked,
		}
		if err := deps.Store.UpdateTask(ctx, args.ID, upd); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("update task %d: %v", args.ID, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("task %d updated", args.ID)), nil
	}
}

func wrapListLogs(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListLogsArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Limit <= 0 {
			args.Limit = 50
		}
		logs, err := deps.Store.ListLogs(ctx, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list logs: %v", err)), nil
		}
		return jsonResult(logs)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
