package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kanban_api/internal/client"
	"kanban_api/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type tools struct {
	store *client.Store
	now   func() time.Time
}

func newTools(store *client.Store) *tools {
	return &tools{store: store, now: time.Now}
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("kanban_boards",
		mcp.WithDescription("List boards, most recently updated first"),
		mcp.WithString("filter",
			mcp.Description("'all', 'recent' (the 5 most recently viewed) or 'starred' (default: all)"),
		),
	), t.handleBoards)

	s.AddTool(mcp.NewTool("kanban_board_overview",
		mcp.WithDescription("Show a board with its progress, its columns in order and the tasks in each column"),
		mcp.WithString("board_id",
			mcp.Description("Board ID"),
			mcp.Required(),
		),
	), t.handleBoardOverview)

	s.AddTool(mcp.NewTool("kanban_create_task",
		mcp.WithDescription("Create a task in a column"),
		mcp.WithString("column_id",
			mcp.Description("Column ID"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Task title"),
			mcp.Required(),
		),
		mcp.WithString("priority",
			mcp.Description("low, medium or high (default: medium)"),
		),
		mcp.WithString("description",
			mcp.Description("Optional: task description"),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional: due date (YYYY-MM-DD format)"),
		),
	), t.handleCreateTask)

	s.AddTool(mcp.NewTool("kanban_move_task",
		mcp.WithDescription("Move a task to another column of one of your boards"),
		mcp.WithString("task_id",
			mcp.Description("Task ID"),
			mcp.Required(),
		),
		mcp.WithString("column_id",
			mcp.Description("Destination column ID"),
			mcp.Required(),
		),
	), t.handleMoveTask)

	s.AddTool(mcp.NewTool("kanban_complete_task",
		mcp.WithDescription("Move a task to its board's Done column"),
		mcp.WithString("task_id",
			mcp.Description("Task ID"),
			mcp.Required(),
		),
	), t.handleCompleteTask)

	s.AddTool(mcp.NewTool("kanban_calendar",
		mcp.WithDescription("List tasks by due date for a month, week or day"),
		mcp.WithString("view",
			mcp.Description("'month', 'week' or 'day' (default: week)"),
		),
		mcp.WithString("date",
			mcp.Description("Optional: anchor date (YYYY-MM-DD format, default: today)"),
		),
	), t.handleCalendar)

	s.AddTool(mcp.NewTool("kanban_stats",
		mcp.WithDescription("Dashboard numbers: totals, completion, due soon, overdue, the last viewed board and per-board progress"),
	), t.handleStats)
}

const recentBoards = 5

func (t *tools) handleBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, _ := stringArg(request, "filter")
	switch filter {
	case "", "all", "recent", "starred":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Invalid filter %q. Must be all, recent or starred", filter)), nil
	}
	if err := t.store.Refresh(ctx); err != nil {
		return toolError(err), nil
	}

	switch filter {
	case "recent":
		return jsonResult(t.store.RecentBoards(recentBoards))
	case "starred":
		return jsonResult(t.store.StarredBoards())
	}
	return jsonResult(t.store.Boards())
}

type columnOverview struct {
	domain.Column
	Tasks []domain.Task `json:"tasks"`
}

type boardOverview struct {
	domain.Board
	// Progress is the whole percentage of tasks in done columns.
	Progress int              `json:"progress"`
	Columns  []columnOverview `json:"columns"`
}

func (t *tools) handleBoardOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, ok := stringArg(request, "board_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: board_id"), nil
	}
	if err := t.store.Refresh(ctx); err != nil {
		return toolError(err), nil
	}

	b, ok := t.store.Board(boardID)
	if !ok {
		return mcp.NewToolResultError("Board not found"), nil
	}
	out := boardOverview{Board: b, Progress: t.store.BoardProgress(boardID), Columns: []columnOverview{}}
	for _, c := range t.store.BoardColumns(boardID) {
		tasks := t.store.ColumnTasks(c.ID)
		if tasks == nil {
			tasks = []domain.Task{}
		}
		out.Columns = append(out.Columns, columnOverview{Column: c, Tasks: tasks})
	}
	return jsonResult(out)
}

func (t *tools) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	columnID, ok := stringArg(request, "column_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: column_id"), nil
	}
	title, ok := stringArg(request, "title")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}

	in := domain.CreateTaskInput{ColumnID: columnID, Title: title, Priority: domain.PriorityMedium}
	if p, ok := stringArg(request, "priority"); ok {
		in.Priority = domain.Priority(p)
	}
	if d, ok := stringArg(request, "description"); ok {
		in.Description = &d
	}
	if d, ok := stringArg(request, "due_date"); ok {
		in.DueDate = &d
	}

	task, err := t.store.CreateTask(ctx, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(task)
}

func (t *tools) handleMoveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, ok := stringArg(request, "task_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: task_id"), nil
	}
	columnID, ok := stringArg(request, "column_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: column_id"), nil
	}

	task, err := t.store.MoveTask(ctx, taskID, columnID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(task)
}

func (t *tools) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, ok := stringArg(request, "task_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: task_id"), nil
	}
	if err := t.store.Refresh(ctx); err != nil {
		return toolError(err), nil
	}

	task, err := t.store.CompleteTask(ctx, taskID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(task)
}

type calendarDay struct {
	Date  domain.Date   `json:"date"`
	Tasks []domain.Task `json:"tasks"`
}

func (t *tools) handleCalendar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := client.ViewWeek
	if v, ok := stringArg(request, "view"); ok {
		parsed, err := client.ParseCalendarView(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view = parsed
	}

	anchor := t.now()
	if v, ok := stringArg(request, "date"); ok {
		d, err := domain.ParseDate(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid date %q", v)), nil
		}
		anchor = d.Time
	}

	if err := t.store.Refresh(ctx); err != nil {
		return toolError(err), nil
	}

	days := []calendarDay{}
	for _, d := range client.CalendarDays(view, anchor) {
		if tasks := t.store.TasksOn(d); len(tasks) > 0 {
			days = append(days, calendarDay{Date: d, Tasks: tasks})
		}
	}
	return jsonResult(days)
}

func (t *tools) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.store.Refresh(ctx); err != nil {
		return toolError(err), nil
	}
	return jsonResult(t.store.Stats(t.now()))
}

func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.GetArguments()[name].(string)
	return v, ok && v != ""
}

func toolError(err error) *mcp.CallToolResult {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError(apiErr.Message)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
