package interaction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendScript = `
name: trend line
events:
  - {type: select_tool, tool: trend_line}
  - {type: pointer_down, x: 210, y: 300}
  - {type: pointer_up, x: 210, y: 300}
  - {type: pointer_move, x: 300, y: 295}
  - {type: pointer_down, x: 410, y: 290}
  - {type: pointer_up, x: 410, y: 290}
`

func TestParseScript(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		script, err := ParseScript([]byte(trendScript))
		require.NoError(t, err)
		assert.Equal(t, "trend line", script.Name)
		require.Len(t, script.Events, 6)
		assert.Equal(t, drawing.KindTrendLine, script.Events[0].Tool)
		assert.Equal(t, 410.0, script.Events[4].X)
	})

	t.Run("yaml list", func(t *testing.T) {
		script, err := ParseScript([]byte("- {type: key_down, key: Escape}\n- {type: tick, at: 500}\n"))
		require.NoError(t, err)
		require.Len(t, script.Events, 2)
		assert.Equal(t, int64(500), script.Events[1].At)
	})

	t.Run("json", func(t *testing.T) {
		script, err := ParseScript([]byte(`{"events":[{"type":"pointer_down","pointer":"touch","pointerId":3,"x":1,"y":2}]}`))
		require.NoError(t, err)
		require.Len(t, script.Events, 1)
		assert.Equal(t, Touch, script.Events[0].Pointer)
		assert.Equal(t, 3, script.Events[0].PointerID)
	})

	t.Run("json list", func(t *testing.T) {
		script, err := ParseScript([]byte(`[{"type":"wheel","deltaY":-120}]`))
		require.NoError(t, err)
		assert.Equal(t, -120.0, script.Events[0].DeltaY)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseScript([]byte(`[{"type":"explode"}]`))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		script, err := ParseScript(nil)
		require.NoError(t, err)
		assert.Empty(t, script.Events)
	})
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(trendScript), 0o600))

	script, err := LoadScript(path)
	require.NoError(t, err)

	m, s := newTestMachine(t)
	m.Run(script.Events)

	require.Len(t, s.Drawings(), 1)
	assert.Equal(t, drawing.Line{Variant: drawing.KindTrendLine, Start: pt(10, 100), End: pt(20, 110)}, s.Drawings()[0].Shape)

	_, err = LoadScript(filepath.Join(dir, "trend.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
