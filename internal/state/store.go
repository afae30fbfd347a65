package state

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for components that manage their own
// statements (sync import runs in a single transaction).
func (s *Store) DB() *sql.DB { return s.db }

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Checked     bool      `json:"checked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Document struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Category  string    `json:"category"`
	Filename  string    `json:"filename,omitempty"`
	Size      int64     `json:"size,omitempty"`
	IsPinned  bool      `json:"is_pinned"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LogEntry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Status struct {
	State       string    `json:"state"`
	ActiveAgent string    `json:"active_agent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AgentState struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ModelUsage struct {
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	UsagePct        int       `json:"usage_pct"`
	CooldownResetAt string    `json:"cd_reset,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func now() time.Time { return time.Now().UTC() }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err == nil {
		return t
	}
	// Imported snapshots may carry sqlite-format timestamps.
	t, err = time.Parse("2006-01-02 15:04:05", v)
	if err == nil {
		return t
	}
	return time.Time{}
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
