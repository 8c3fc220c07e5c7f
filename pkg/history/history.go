// Package history keeps bounded undo and redo stacks of chart snapshots.
package history

import (
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// DefaultLimit bounds the undo stack when no limit is configured
const DefaultLimit = 50

// Snapshot is an independent copy of every piece of undoable chart state.
// Undo and redo always apply all fields together.
type Snapshot struct {
	Drawings   drawing.Collection `json:"drawings"`
	Indicators []indicator.Config `json:"indicators"`
	View       core.ViewState     `json:"view"`
	PriceRange core.PriceRange    `json:"priceRange"`
	AutoScale  bool               `json:"autoScale"`
	ChartType  core.ChartType     `json:"chartType"`
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Drawings = s.Drawings.Copy()
	if s.Indicators != nil {
		out.Indicators = make([]indicator.Config, len(s.Indicators))
		for i, cfg := range s.Indicators {
			out.Indicators[i] = cfg.Clone()
		}
	}
	return out
}

// Manager holds the undo and redo stacks
type Manager struct {
	undo  []Snapshot
	redo  []Snapshot
	limit int
}

// New creates a manager keeping at most limit undo entries
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Commit records the current state before a mutation and clears redo
func (m *Manager) Commit(current Snapshot) {
	m.push(current.Clone())
	m.redo = nil
}

// Push records an already captured state, such as the view at the start of
// a navigation gesture. It behaves like Commit.
func (m *Manager) Push(entry Snapshot) {
	m.Commit(entry)
}

func (m *Manager) push(s Snapshot) {
	m.undo = append(m.undo, s)
	if over := len(m.undo) - m.limit; over > 0 {
		m.undo = append([]Snapshot(nil), m.undo[over:]...)
	}
}

// Undo returns the state to apply, saving current for redo. It returns
// false when there is nothing to undo.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	if len(m.undo) == 0 {
		return Snapshot{}, false
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, current.Clone())
	return top.Clone(), true
}

// Redo is the inverse of Undo
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	if len(m.redo) == 0 {
		return Snapshot{}, false
	}
	top := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.push(current.Clone())
	return top.Clone(), true
}

// CanUndo reports whether Undo would apply a state
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would apply a state
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the sizes of the undo and redo stacks
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// Clear drops both stacks
func (m *Manager) Clear() {
	m.undo, m.redo = nil, nil
}
