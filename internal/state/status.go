package state

import (
	"context"
	"fmt"
	"strings"
)

func (s *Store) GetStatus(ctx context.Context) (Status, error) {
	var st Status
	var updatedAtStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT state, active_agent, updated_at FROM status WHERE id = 1`,
	).Scan(&st.State, &st.ActiveAgent, &updatedAtStr)
	if err != nil {
		return Status{}, fmt.Errorf("get status: %w", err)
	}
	st.UpdatedAt = parseTime(updatedAtStr)
	return st, nil
}

// UpdateStatus persists only the supplied fields of the status singleton.
// A racing writer simply overwrites; last write wins.
func (s *Store) UpdateStatus(ctx context.Context, state, activeAgent *string) error {
	if state == nil && activeAgent == nil {
		return nil
	}
	var sets []string
	var args []any
	if state != nil {
		sets = append(sets, "state = ?")
		args = append(args, *state)
	}
	if activeAgent != nil {
		sets = append(sets, "active_agent = ?")
		args = append(args, *activeAgent)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(now()))

	_, err := s.db.ExecContext(ctx, `UPDATE status SET `+strings.Join(sets, ", ")+` WHERE id = 1`, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (s *Store) UpsertAgentState(ctx context.Context, name, agentState string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_states (name, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		name, agentState, formatTime(now()))
	if err != nil {
		return fmt.Errorf("upsert agent state: %w", err)
	}
	return nil
}

func (s *Store) ListAgentStates(ctx context.Context) ([]AgentState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, state, updated_at FROM agent_states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list agent states: %w", err)
	}
	defer rows.Close()

	var out []AgentState
	for rows.Next() {
		var as AgentState
		var updatedAtStr string
		if err := rows.Scan(&as.Name, &as.State, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scan agent state: %w", err)
		}
		as.UpdatedAt = parseTime(updatedAtStr)
		out = append(out, as)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent states: %w", err)
	}
	return out, nil
}
