// Package status owns the canonical view of what the agent is doing right
// now: the global status singleton plus the per-agent state map. All reads
// and writes go through the Manager, and every mutation is pushed to
// connected viewers through the event bus.
package status

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/state"
)

// ErrInvalid marks a request missing its required fields.
var ErrInvalid = errors.New("invalid request")

type Manager struct {
	store        *state.Store
	bus          *eventbus.Bus
	defaultAgent string
}

func NewManager(store *state.Store, bus *eventbus.Bus, defaultAgent string) *Manager {
	return &Manager{store: store, bus: bus, defaultAgent: defaultAgent}
}

// Snapshot is the assembled global view returned to viewers.
type Snapshot struct {
	State       string            `json:"status"`
	ActiveAgent string            `json:"activeAgent"`
	Agents      map[string]string `json:"agents"`
	UpdatedAt   time.Time         `json:"timestamp"`
}

// Get assembles the status singleton and the per-agent state map. Store
// unavailability is reported, not fatal: the snapshot falls back to idle
// and the configured default agent.
func (m *Manager) Get(ctx context.Context) Snapshot {
	snap := Snapshot{
		State:       "idle",
		ActiveAgent: m.defaultAgent,
		Agents:      map[string]string{},
		UpdatedAt:   time.Now().UTC(),
	}

	st, err := m.store.GetStatus(ctx)
	if err != nil {
		log.Printf("status read failed, serving defaults: %v", err)
		return snap
	}
	if st.State != "" {
		snap.State = st.State
	}
	if st.ActiveAgent != "" {
		snap.ActiveAgent = st.ActiveAgent
	}
	if !st.UpdatedAt.IsZero() {
		snap.UpdatedAt = st.UpdatedAt
	}

	agents, err := m.store.ListAgentStates(ctx)
	if err != nil {
		log.Printf("agent states read failed: %v", err)
		return snap
	}
	for _, a := range agents {
		snap.Agents[a.Name] = a.State
	}
	return snap
}

// SetStatus persists the supplied fields of the status singleton and
// broadcasts statusUpdated. At least one field is required. Omitted
// fields keep their prior value; a racing writer simply overwrites.
func (m *Manager) SetStatus(ctx context.Context, newState, activeAgent *string) error {
	if newState == nil && activeAgent == nil {
		return ErrInvalid
	}
	if err := m.store.UpdateStatus(ctx, newState, activeAgent); err != nil {
		return err
	}
	data := map[string]any{}
	if newState != nil {
		data["state"] = *newState
	}
	if activeAgent != nil {
		data["activeAgent"] = *activeAgent
	}
	m.bus.Broadcast(eventbus.EventStatusUpdated, data)
	return nil
}

// SetAgentState upserts one agent's state and broadcasts agentStatusUpdated.
func (m *Manager) SetAgentState(ctx context.Context, name, agentState string) error {
	if name == "" || agentState == "" {
		return ErrInvalid
	}
	if err := m.store.UpsertAgentState(ctx, name, agentState); err != nil {
		return err
	}
	m.bus.Broadcast(eventbus.EventAgentStatus, map[string]any{"name": name, "state": agentState})
	return nil
}
