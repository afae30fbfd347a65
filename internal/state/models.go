package state

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertModelUsage replaces the (provider, model) row wholesale.
func (s *Store) UpsertModelUsage(ctx context.Context, provider, model string, usagePct int, cooldownResetAt string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO model_usage (provider, model, usage_pct, cd_reset, updated_at) VALUES (?, ?, ?, ?, ?)`,
		provider, model, usagePct, nullString(cooldownResetAt), formatTime(now()))
	if err != nil {
		return fmt.Errorf("upsert model usage: %w", err)
	}
	return nil
}

func (s *Store) ListModelUsage(ctx context.Context) ([]ModelUsage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, model, usage_pct, cd_reset, updated_at FROM model_usage ORDER BY provider, model`)
	if err != nil {
		return nil, fmt.Errorf("list model usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var mu ModelUsage
		var usagePct sql.NullInt64
		var cdReset sql.NullString
		var updatedAtStr string
		if err := rows.Scan(&mu.Provider, &mu.Model, &usagePct, &cdReset, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		mu.UsagePct = int(usagePct.Int64)
		mu.CooldownResetAt = cdReset.String
		mu.UpdatedAt = parseTime(updatedAtStr)
		out = append(out, mu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model usage: %w", err)
	}
	return out, nil
}
