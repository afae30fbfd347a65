package state

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const documentColumns = `id, title, content, category, filename, size, is_pinned, sort_order, created_at, updated_at`

// DocumentUpdate carries a partial update; nil fields keep their current value.
type DocumentUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (u DocumentUpdate) empty() bool {
	return u.Title == nil && u.Content == nil && u.Category == nil
}

func (s *Store) CreateDocument(ctx context.Context, title, content, category string) (Document, error) {
	if category == "" {
		category = "Guide"
	}
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (title, content, category, is_pinned, sort_order, created_at, updated_at) VALUES (?, ?, ?, 0, 0, ?, ?)`,
		title, content, category, formatTime(ts), formatTime(ts))
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Document{}, fmt.Errorf("document id: %w", err)
	}
	return Document{
		ID:        id,
		Title:     title,
		Content:   content,
		Category:  category,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

func (s *Store) GetDocument(ctx context.Context, id int64) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns document rows without their content, pinned first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, category, is_pinned, sort_order, created_at, updated_at
		 FROM documents ORDER BY is_pinned DESC, sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var pinned int
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Category, &pinned, &doc.SortOrder, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.IsPinned = pinned != 0
		doc.CreatedAt = parseTime(createdAtStr)
		doc.UpdatedAt = parseTime(updatedAtStr)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateDocument(ctx context.Context, id int64, update DocumentUpdate) error {
	if update.empty() {
		return nil
	}
	var sets []string
	var args []any
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(now()), id)

	res, err := s.db.ExecContext(ctx, `UPDATE documents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetDocumentPinned(ctx context.Context, id int64, pinned bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE documents SET is_pinned = ? WHERE id = ?`, boolToInt(pinned), id)
	if err != nil {
		return fmt.Errorf("pin document: %w", err)
	}
	return nil
}

func (s *Store) SetDocumentSortOrder(ctx context.Context, id int64, sortOrder int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE documents SET sort_order = ? WHERE id = ?`, sortOrder, id)
	if err != nil {
		return fmt.Errorf("reorder document: %w", err)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var content, filename sql.NullString
	var size sql.NullInt64
	var pinned int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&doc.ID, &doc.Title, &content, &doc.Category, &filename, &size, &pinned, &doc.SortOrder, &createdAtStr, &updatedAtStr); err != nil {
		return Document{}, err
	}
	doc.Content = content.String
	doc.Filename = filename.String
	doc.Size = size.Int64
	doc.IsPinned = pinned != 0
	doc.CreatedAt = parseTime(createdAtStr)
	doc.UpdatedAt = parseTime(updatedAtStr)
	return doc, nil
}
