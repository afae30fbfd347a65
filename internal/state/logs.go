package state

import (
	"context"
	"database/sql"
	"fmt"
)

// AddLog appends to the audit trail. Log entries are never updated or deleted.
func (s *Store) AddLog(ctx context.Context, title, description, logType string) error {
	if logType == "" {
		logType = "info"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (title, description, type, created_at) VALUES (?, ?, ?, ?)`,
		title, description, logType, formatTime(now()))
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *Store) ListLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, type, created_at FROM logs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var entry LogEntry
		var description sql.NullString
		var createdAtStr string
		if err := rows.Scan(&entry.ID, &entry.Title, &description, &entry.Type, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entry.Description = description.String
		entry.CreatedAt = parseTime(createdAtStr)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return out, nil
}
