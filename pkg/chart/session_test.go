package chart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hour  = int64(3600)
	start = int64(1_700_000_000)
)

func at(i int) int64 { return start + int64(i)*hour }

func pt(i int, price float64) core.Point { return core.Point{Time: at(i), Price: price} }

type recorder struct {
	drawings   []drawing.Collection
	indicators [][]indicator.Config
	alerts     []alert.PriceAlert
	removed    []string
}

func (r *recorder) PersistDrawings(_ string, d drawing.Collection) { r.drawings = append(r.drawings, d) }
func (r *recorder) PersistAlert(a alert.PriceAlert)                { r.alerts = append(r.alerts, a) }
func (r *recorder) RemoveAlert(id string)                          { r.removed = append(r.removed, id) }

func (r *recorder) PersistIndicators(_ string, c []indicator.Config) {
	r.indicators = append(r.indicators, c)
}

func candles(n int) []core.Candle {
	out := make([]core.Candle, n)
	for i := range out {
		price := 100 + float64(i)
		out[i] = core.Candle{Time: at(i), Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	n := 0
	s := New("BTCUSDT", config.Default(), nil,
		WithPersister(rec),
		WithSize(1000, 400),
		WithClock(func() time.Time { return time.Unix(start, 0) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	s.SetCandles(candles(200))
	return s, rec
}

func TestSession_DefaultViewAndAutoscale(t *testing.T) {
	s, _ := newTestSession(t)

	view := s.Viewport().View()
	assert.Equal(t, 120.0, view.VisibleCandles)
	assert.InDelta(t, 200-108.0, view.StartIndex, 1e-9)

	r := s.Viewport().PriceRange()
	assert.Less(t, r.Min, 192.0)
	assert.Greater(t, r.Max, 300.0)
}

func TestSession_AddUndoRedo(t *testing.T) {
	s, rec := newTestSession(t)

	s.AddDrawing(drawing.New("", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	require.Len(t, s.Drawings(), 1)
	assert.Equal(t, "id-1", s.Drawings()[0].ID)
	assert.Len(t, rec.drawings, 1)

	require.True(t, s.Undo())
	assert.Empty(t, s.Drawings())
	assert.False(t, s.Undo())

	require.True(t, s.Redo())
	require.Len(t, s.Drawings(), 1)
	assert.False(t, s.Redo())
}

func TestSession_SelectionClearedByUndo(t *testing.T) {
	s, _ := newTestSession(t)

	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	s.Select("h")
	_, ok := s.Selected()
	require.True(t, ok)

	s.Undo()
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestSession_DrawingMutations(t *testing.T) {
	s, _ := newTestSession(t)
	s.AddDrawing(drawing.New("a", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	s.AddDrawing(drawing.New("b", drawing.TextNote{At: pt(10, 120), Text: "x"}, drawing.DefaultStyle))

	assert.True(t, s.SetText("b", "note"))
	d, _ := s.Drawing("b")
	assert.Equal(t, "note", d.Shape.(drawing.TextNote).Text)

	assert.True(t, s.ToggleVisibility("a"))
	d, _ = s.Drawing("a")
	assert.False(t, d.Visible)

	assert.True(t, s.SetLocked("a", true))
	assert.True(t, s.BringToFront("a"))
	assert.Equal(t, "a", s.Drawings()[1].ID)

	clone, ok := s.CloneDrawing("a")
	require.True(t, ok)
	assert.InDelta(t, 150.15, clone.Shape.(drawing.HorizontalLine).Price, 1e-9)
	selected, _ := s.Selected()
	assert.Equal(t, clone.ID, selected)

	assert.False(t, s.UpdateStyle("missing", drawing.DefaultStyle))
	undo, _ := s.History().Len()
	assert.Equal(t, 7, undo)
}

func TestSession_DeleteDrawingCascadesAlert(t *testing.T) {
	s, rec := newTestSession(t)
	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))

	a, err := s.CreateAlert(context.Background(), alert.PriceAlert{DrawingID: "h", Condition: alert.Crossing})
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", a.Symbol)
	assert.Equal(t, alert.OnlyOnce, a.TriggerFrequency)

	require.True(t, s.DeleteDrawing("h"))
	assert.Empty(t, s.Alerts())
	assert.Equal(t, []string{a.ID}, rec.removed)

	entries := s.AlertLog().ForAlert(a.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, alert.EntryClosedDeleted, entries[2].Type)
}

func TestSession_UndoAddDrawingClosesAlert(t *testing.T) {
	s, rec := newTestSession(t)
	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	a, err := s.CreateAlert(context.Background(), alert.PriceAlert{DrawingID: "h"})
	require.NoError(t, err)

	require.True(t, s.Undo())
	assert.Empty(t, s.Drawings())
	assert.Empty(t, s.Alerts())
	assert.Empty(t, s.ActiveAlerts(nil))
	assert.Equal(t, []string{a.ID}, rec.removed)

	entries := s.AlertLog().ForAlert(a.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, alert.EntryClosedDeleted, entries[2].Type)

	require.True(t, s.Redo())
	assert.Len(t, s.Drawings(), 1)
	assert.Empty(t, s.Alerts())
}

func TestSession_CreateAlertRejections(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	s.AddDrawing(drawing.New("r", drawing.Box{Variant: drawing.KindRectangle, Start: pt(1, 110), End: pt(5, 120)}, drawing.DefaultStyle))

	_, err := s.CreateAlert(ctx, alert.PriceAlert{DrawingID: "missing"})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.CreateAlert(ctx, alert.PriceAlert{DrawingID: "r"})
	assert.ErrorIs(t, err, core.ErrUnresolvable)

	_, err = s.CreateAlert(ctx, alert.PriceAlert{DrawingID: "h"})
	require.NoError(t, err)
	_, err = s.CreateAlert(ctx, alert.PriceAlert{DrawingID: "h"})
	assert.ErrorIs(t, err, core.ErrDuplicateAlert)
	assert.Len(t, s.Alerts(), 1)
}

func TestSession_ActiveAlerts(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	line := drawing.New("t", drawing.Line{Variant: drawing.KindTrendLine, Start: pt(0, 100), End: pt(10, 110)}, drawing.DefaultStyle)
	s.AddDrawing(line)
	_, err := s.CreateAlert(ctx, alert.PriceAlert{ID: "line", DrawingID: "t"})
	require.NoError(t, err)
	_, err = s.CreateAlert(ctx, alert.PriceAlert{ID: "value", Value: alert.Float(250)})
	require.NoError(t, err)

	active := s.ActiveAlerts(nil)
	require.Len(t, active, 2)
	assert.InDelta(t, 100, active[0].Price, 1e-9)
	assert.Equal(t, 250.0, active[1].Price)

	moved := line.Copy()
	moved.Shape = drawing.Translate(moved.Shape, 0, 10)
	active = s.ActiveAlerts(&moved)
	assert.InDelta(t, 110, active[0].Price, 1e-9)

	assert.True(t, s.MoveAlertValue("value", 260))
	assert.False(t, s.MoveAlertValue("line", 260))
	a, _ := s.Alert("value")
	assert.Equal(t, 260.0, *a.Value)
}

func TestSession_Indicators(t *testing.T) {
	s, rec := newTestSession(t)

	cfg, err := indicator.NewConfig("", indicator.TypeSMA, "#FF9800")
	require.NoError(t, err)
	cfg.Settings["period"] = 5
	cfg, err = s.AddIndicator(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	assert.Len(t, rec.indicators, 1)

	ind, ok := s.Indicator(cfg.ID)
	require.True(t, ok)
	latest, ok := indicator.Latest(ind, "main")
	require.True(t, ok)
	assert.InDelta(t, 297, latest, 1e-9)

	_, err = s.CreateAlert(context.Background(), alert.PriceAlert{ID: "ind", IndicatorID: cfg.ID})
	require.NoError(t, err)
	active := s.ActiveAlerts(nil)
	require.Len(t, active, 1)
	assert.InDelta(t, 297, active[0].Price, 1e-9)

	require.True(t, s.RemoveIndicator(cfg.ID))
	assert.Empty(t, s.Alerts())
	_, ok = s.Indicator(cfg.ID)
	assert.False(t, ok)

	require.True(t, s.Undo())
	assert.Len(t, s.Indicators(), 1)
	_, ok = s.Indicator(cfg.ID)
	assert.True(t, ok)

	_, err = s.AddIndicator(indicator.Config{Type: "nope"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSession_CommitNavigation(t *testing.T) {
	s, _ := newTestSession(t)

	before := s.Navigation()
	assert.False(t, s.CommitNavigation(before))

	s.Viewport().Pan(before.View, before.PriceRange, 100, 0, false)
	require.True(t, s.CommitNavigation(before))

	require.True(t, s.Undo())
	assert.Equal(t, before.View, s.Viewport().View())
}

func TestSession_AppendCandleFollowsLatest(t *testing.T) {
	s, _ := newTestSession(t)
	view := s.Viewport().View()

	s.AppendCandle(core.Candle{Time: at(200), Open: 300, High: 301, Low: 299, Close: 300})
	assert.Equal(t, 201, s.Viewport().Len())
	assert.Equal(t, view.StartIndex+1, s.Viewport().View().StartIndex)

	s.AppendCandle(core.Candle{Time: at(200), Open: 300, High: 310, Low: 299, Close: 305})
	assert.Equal(t, 201, s.Viewport().Len())
	assert.Equal(t, 305.0, s.Candles()[200].Close)
}

func TestSession_ChartTypeAndAutoScale(t *testing.T) {
	s, _ := newTestSession(t)

	s.ToggleChartType()
	assert.NotEqual(t, core.ChartCandles, s.ChartType())
	s.SetAutoScale(false)
	assert.False(t, s.AutoScale())
	undo, _ := s.History().Len()
	assert.Equal(t, 2, undo)

	s.Undo()
	s.Undo()
	assert.Equal(t, core.ChartCandles, s.ChartType())
	assert.True(t, s.AutoScale())
}
