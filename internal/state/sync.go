package state

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	StrategyReplace       = "replace"
	StrategyLastWriteWins = "last-write-wins"
)

// TaskRecord is a task as it appears in a sync snapshot. Timestamps stay
// strings because foreign snapshots may carry sqlite-format datetimes.
type TaskRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Checked     boolish `json:"checked"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type DocumentRecord struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content,omitempty"`
	Category  string  `json:"category"`
	Filename  string  `json:"filename,omitempty"`
	Size      int64   `json:"size,omitempty"`
	IsPinned  boolish `json:"is_pinned"`
	SortOrder int     `json:"sort_order"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type StatusRecord struct {
	State       string `json:"state"`
	ActiveAgent string `json:"active_agent"`
	UpdatedAt   string `json:"updated_at"`
}

type SnapshotData struct {
	Tasks     []TaskRecord     `json:"tasks,omitempty"`
	Documents []DocumentRecord `json:"documents,omitempty"`
	Logs      []LogEntry       `json:"logs,omitempty"`
	Status    *StatusRecord    `json:"status,omitempty"`
}

type ImportCounts struct {
	Tasks     int `json:"tasks"`
	Documents int `json:"documents"`
	Status    int `json:"status"`
}

// ImportSnapshot reconciles a foreign snapshot against the local store.
// The whole merge runs in one transaction; any single record failure
// aborts the import.
func (s *Store) ImportSnapshot(ctx context.Context, data SnapshotData, strategy string) (ImportCounts, error) {
	if strategy == "" {
		strategy = StrategyLastWriteWins
	}

	var counts ImportCounts
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if strategy == StrategyReplace {
		if err := replaceTasks(ctx, tx, data.Tasks, &counts); err != nil {
			return ImportCounts{}, err
		}
		if err := replaceDocuments(ctx, tx, data.Documents, &counts); err != nil {
			return ImportCounts{}, err
		}
		if data.Status != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM status`); err != nil {
				return ImportCounts{}, fmt.Errorf("clear status: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO status (id, state, active_agent, updated_at) VALUES (1, ?, ?, ?)`,
				data.Status.State, data.Status.ActiveAgent, data.Status.UpdatedAt); err != nil {
				return ImportCounts{}, fmt.Errorf("replace status: %w", err)
			}
			counts.Status = 1
		}
	} else {
		if err := mergeTasks(ctx, tx, data.Tasks, &counts); err != nil {
			return ImportCounts{}, err
		}
		if err := mergeDocuments(ctx, tx, data.Documents, &counts); err != nil {
			return ImportCounts{}, err
		}
		// Status is merged unconditionally, stamped with current time;
		// no timestamp comparison is applied to the singleton.
		if data.Status != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE status SET state = ?, active_agent = ?, updated_at = ? WHERE id = 1`,
				data.Status.State, data.Status.ActiveAgent, formatTime(now())); err != nil {
				return ImportCounts{}, fmt.Errorf("merge status: %w", err)
			}
			counts.Status = 1
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportCounts{}, fmt.Errorf("commit import: %w", err)
	}
	return counts, nil
}

func replaceTasks(ctx context.Context, tx *sql.Tx, records []TaskRecord, counts *ImportCounts) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, rec := range records {
		if err := insertTaskRecord(ctx, tx, rec); err != nil {
			return err
		}
		counts.Tasks++
	}
	return nil
}

func replaceDocuments(ctx context.Context, tx *sql.Tx, records []DocumentRecord, counts *ImportCounts) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	for _, rec := range records {
		if err := insertDocumentRecord(ctx, tx, rec); err != nil {
			return err
		}
		counts.Documents++
	}
	return nil
}

func mergeTasks(ctx context.Context, tx *sql.Tx, records []TaskRecord, counts *ImportCounts) error {
	for _, rec := range records {
		var localUpdated string
		err := tx.QueryRowContext(ctx, `SELECT updated_at FROM tasks WHERE id = ?`, rec.ID).Scan(&localUpdated)
		if err == sql.ErrNoRows {
			if err := insertTaskRecord(ctx, tx, rec); err != nil {
				return err
			}
			counts.Tasks++
			continue
		}
		if err != nil {
			return fmt.Errorf("load local task %d: %w", rec.ID, err)
		}
		// Strictly newer foreign record wins; local wins ties.
		if !parseTime(rec.UpdatedAt).After(parseTime(localUpdated)) {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, checked = ?, updated_at = ? WHERE id = ?`,
			rec.Title, rec.Description, rec.Status, rec.Priority, boolToInt(bool(rec.Checked)), rec.UpdatedAt, rec.ID); err != nil {
			return fmt.Errorf("merge task %d: %w", rec.ID, err)
		}
		counts.Tasks++
	}
	return nil
}

func mergeDocuments(ctx context.Context, tx *sql.Tx, records []DocumentRecord, counts *ImportCounts) error {
	for _, rec := range records {
		var localUpdated string
		err := tx.QueryRowContext(ctx, `SELECT updated_at FROM documents WHERE id = ?`, rec.ID).Scan(&localUpdated)
		if err == sql.ErrNoRows {
			if err := insertDocumentRecord(ctx, tx, rec); err != nil {
				return err
			}
			counts.Documents++
			continue
		}
		if err != nil {
			return fmt.Errorf("load local document %d: %w", rec.ID, err)
		}
		if !parseTime(rec.UpdatedAt).After(parseTime(localUpdated)) {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET title = ?, content = ?, category = ?, filename = ?, size = ?, is_pinned = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
			rec.Title, nullString(rec.Content), rec.Category, nullString(rec.Filename), rec.Size,
			boolToInt(bool(rec.IsPinned)), rec.SortOrder, rec.UpdatedAt, rec.ID); err != nil {
			return fmt.Errorf("merge document %d: %w", rec.ID, err)
		}
		counts.Documents++
	}
	return nil
}

func insertTaskRecord(ctx context.Context, tx *sql.Tx, rec TaskRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, checked, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Description, rec.Status, rec.Priority, boolToInt(bool(rec.Checked)), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task %d: %w", rec.ID, err)
	}
	return nil
}

func insertDocumentRecord(ctx context.Context, tx *sql.Tx, rec DocumentRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, category, filename, size, is_pinned, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, nullString(rec.Content), rec.Category, nullString(rec.Filename), rec.Size,
		boolToInt(bool(rec.IsPinned)), rec.SortOrder, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document %d: %w", rec.ID, err)
	}
	return nil
}

// Export captures a full snapshot of tasks, documents, recent logs and status.
type Export struct {
	ID         string       `json:"id"`
	ExportedAt time.Time    `json:"exportedAt"`
	Data       SnapshotData `json:"data"`
}

func (s *Store) ExportSnapshot(ctx context.Context) (Export, error) {
	out := Export{ID: ulid.Make().String(), ExportedAt: now()}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return Export{}, err
	}
	for _, t := range tasks {
		out.Data.Tasks = append(out.Data.Tasks, TaskRecord{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			Checked:     boolish(t.Checked),
			CreatedAt:   formatTime(t.CreatedAt),
			UpdatedAt:   formatTime(t.UpdatedAt),
		})
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return Export{}, fmt.Errorf("export documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return Export{}, fmt.Errorf("scan document: %w", err)
		}
		out.Data.Documents = append(out.Data.Documents, DocumentRecord{
			ID:        doc.ID,
			Title:     doc.Title,
			Content:   doc.Content,
			Category:  doc.Category,
			Filename:  doc.Filename,
			Size:      doc.Size,
			IsPinned:  boolish(doc.IsPinned),
			SortOrder: doc.SortOrder,
			CreatedAt: formatTime(doc.CreatedAt),
			UpdatedAt: formatTime(doc.UpdatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return Export{}, fmt.Errorf("iterate documents: %w", err)
	}

	logs, err := s.ListLogs(ctx, 500)
	if err != nil {
		return Export{}, err
	}
	out.Data.Logs = logs

	status, err := s.GetStatus(ctx)
	if err != nil {
		return Export{}, err
	}
	out.Data.Status = &StatusRecord{
		State:       status.State,
		ActiveAgent: status.ActiveAgent,
		UpdatedAt:   formatTime(status.UpdatedAt),
	}

	return out, nil
}

// SyncStatus reports row counts and freshness per entity kind.
type SyncStatus struct {
	Counts      map[string]int    `json:"counts"`
	LastUpdated map[string]string `json:"lastUpdated"`
}

func (s *Store) SyncStatus(ctx context.Context) (SyncStatus, error) {
	out := SyncStatus{Counts: map[string]int{}, LastUpdated: map[string]string{}}
	for _, table := range []string{"tasks", "documents", "logs"} {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
			return SyncStatus{}, fmt.Errorf("count %s: %w", table, err)
		}
		out.Counts[table] = count
	}
	for _, table := range []string{"tasks", "documents"} {
		var last sql.NullString
		if err := s.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM `+table).Scan(&last); err != nil {
			return SyncStatus{}, fmt.Errorf("freshness %s: %w", table, err)
		}
		if last.Valid {
			out.LastUpdated[table] = last.String
		}
	}
	return out, nil
}

// boolish accepts JSON booleans and sqlite-style 0/1 numbers.
type boolish bool

func (b *boolish) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", "1":
		*b = true
		return nil
	case "false", "0", "null":
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse bool %q: %w", data, err)
	}
	*b = boolish(v)
	return nil
}

func (b boolish) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
