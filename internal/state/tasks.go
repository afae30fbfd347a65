package state

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const taskColumns = `id, title, description, status, priority, checked, created_at, updated_at`

// TaskUpdate carries a partial update; nil fields keep their current value.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Checked     *bool   `json:"checked"`
}

func (u TaskUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil && u.Checked == nil
}

func (s *Store) CreateTask(ctx context.Context, title, description, status, priority string) (Task, error) {
	if status == "" {
		status = "todo"
	}
	if priority == "" {
		priority = "medium"
	}
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, checked, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		title, description, status, priority, formatTime(ts), formatTime(ts))
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("task id: %w", err)
	}
	return Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, update TaskUpdate) error {
	if update.empty() {
		return nil
	}
	var sets []string
	var args []any
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.Checked != nil {
		sets = append(sets, "checked = ?")
		args = append(args, boolToInt(*update.Checked))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(now()), id)

	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetTaskStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(now()), id)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var description sql.NullString
	var checked int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&task.ID, &task.Title, &description, &task.Status, &task.Priority, &checked, &createdAtStr, &updatedAtStr); err != nil {
		return Task{}, err
	}
	task.Description = description.String
	task.Checked = checked != 0
	task.CreatedAt = parseTime(createdAtStr)
	task.UpdatedAt = parseTime(updatedAtStr)
	return task, nil
}
