package history

import (
	"testing"

	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseState() Snapshot {
	return Snapshot{
		Drawings: drawing.Collection{
			drawing.New("p", drawing.Path{Points: []core.Point{{Time: 1, Price: 1}, {Time: 2, Price: 2}}}, drawing.DefaultStyle),
		},
		Indicators: []indicator.Config{{ID: "ema", Type: indicator.TypeEMA, Settings: indicator.Settings{"period": 20}, Visible: true}},
		View:       core.ViewState{StartIndex: 10, VisibleCandles: 50},
		PriceRange: core.PriceRange{Min: 100, Max: 200},
		AutoScale:  true,
		ChartType:  core.ChartCandles,
	}
}

func mutate(s Snapshot) Snapshot {
	s = s.Clone()
	s.Drawings = s.Drawings.Add(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	s.Indicators[0].Settings["period"] = 50
	s.View = core.ViewState{StartIndex: 30, VisibleCandles: 80}
	s.PriceRange = core.PriceRange{Min: 90, Max: 210}
	s.AutoScale = false
	s.ChartType = core.ChartHeikinAshi
	return s
}

func TestManager_CommitUndoRedo(t *testing.T) {
	m := New(50)
	state := baseState()

	m.Commit(state)
	mutated := mutate(state)

	restored, ok := m.Undo(mutated)
	require.True(t, ok)
	assert.Equal(t, baseState(), restored)
	assert.True(t, m.CanRedo())

	again, ok := m.Redo(restored)
	require.True(t, ok)
	assert.Equal(t, mutated, again)
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestManager_SnapshotsAreIndependent(t *testing.T) {
	m := New(50)
	state := baseState()
	m.Commit(state)

	// mutating the live state after commit must not leak into history
	state.Drawings[0].Shape.(drawing.Path).Points[0] = core.Point{Time: 99, Price: 99}
	state.Indicators[0].Settings["period"] = 99

	restored, ok := m.Undo(state)
	require.True(t, ok)
	assert.Equal(t, core.Point{Time: 1, Price: 1}, restored.Drawings[0].Shape.(drawing.Path).Points[0])
	assert.Equal(t, 20.0, restored.Indicators[0].Settings["period"])
}

func TestManager_EmptyStacks(t *testing.T) {
	m := New(0)

	_, ok := m.Undo(baseState())
	assert.False(t, ok)
	_, ok = m.Redo(baseState())
	assert.False(t, ok)

	undo, redo := m.Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}

func TestManager_CommitClearsRedo(t *testing.T) {
	m := New(50)
	m.Commit(baseState())
	_, ok := m.Undo(mutate(baseState()))
	require.True(t, ok)
	require.True(t, m.CanRedo())

	m.Commit(baseState())
	assert.False(t, m.CanRedo())
}

func TestManager_Limit(t *testing.T) {
	m := New(3)
	for i := 0; i < 5; i++ {
		s := baseState()
		s.View.StartIndex = float64(i)
		m.Commit(s)
	}

	undo, _ := m.Len()
	assert.Equal(t, 3, undo)

	current := baseState()
	var seen []float64
	for m.CanUndo() {
		s, _ := m.Undo(current)
		seen = append(seen, s.View.StartIndex)
		current = s
	}
	assert.Equal(t, []float64{4, 3, 2}, seen)
}
