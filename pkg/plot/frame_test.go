package plot

import (
	"context"
	"testing"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
	"github.com/raykavin/chartcore/pkg/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hour  = int64(3600)
	start = int64(1_700_000_000)
)

func at(i int) int64 { return start + int64(i)*hour }

func pt(i int, price float64) core.Point { return core.Point{Time: at(i), Price: price} }

// newTestMachine shows candles 0..49 of 100 on a 1000x400 chart with one
// pixel per price unit.
func newTestMachine(t *testing.T) *interaction.Machine {
	t.Helper()
	candles := make([]core.Candle, 100)
	for i := range candles {
		price := 200 + float64(i)
		candles[i] = core.Candle{Time: at(i), Open: price, High: price + 1, Low: price - 1, Close: price + 0.5}
	}

	s := chart.New("ETHUSDT", config.Default(), nil, chart.WithSize(1000, 400))
	s.SetCandles(candles)
	s.DisableAutoScale()
	s.Viewport().SetView(core.ViewState{StartIndex: 0, VisibleCandles: 50})
	s.Viewport().SetPriceRange(core.PriceRange{Min: 0, Max: 400})
	return interaction.New(s)
}

func TestBuildFrame_Candles(t *testing.T) {
	m := newTestMachine(t)

	frame := BuildFrame(m)
	require.Len(t, frame.Candles, 51)
	assert.Equal(t, 0, frame.Candles[0].Index)
	assert.Equal(t, 10.0, frame.Candles[0].X)
	assert.Equal(t, 200.0, frame.Candles[0].OpenY)
	assert.Equal(t, "none", frame.State)
	assert.Equal(t, "ETHUSDT", frame.Symbol)

	m.Session().SetChartType(core.ChartHeikinAshi)
	frame = BuildFrame(m)
	ha := core.HeikinAshiSeries(m.Session().Candles())
	assert.Equal(t, ha[10].Open, frame.Candles[10].Open)
}

func TestBuildFrame_Drawings(t *testing.T) {
	m := newTestMachine(t)
	s := m.Session()

	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 100}, drawing.DefaultStyle))
	s.AddDrawing(drawing.New("t", drawing.Line{Variant: drawing.KindTrendLine, Start: pt(10, 100), End: pt(20, 110)}, drawing.DefaultStyle))
	s.AddDrawing(drawing.New("f", drawing.Fibonacci{Start: pt(0, 100), End: pt(10, 200), Levels: []float64{0, 0.5, 1}}, drawing.DefaultStyle))
	hidden := drawing.New("x", drawing.VerticalLine{Time: at(5)}, drawing.DefaultStyle)
	hidden.Visible = false
	s.AddDrawing(hidden)
	s.Select("t")

	frame := BuildFrame(m)
	require.Len(t, frame.Drawings, 3)

	assert.Equal(t, []core.Pixel{{X: 0, Y: 300}, {X: 1000, Y: 300}}, frame.Drawings[0].Points)
	assert.Empty(t, frame.Drawings[0].Handles)

	trend := frame.Drawings[1]
	assert.True(t, trend.Selected)
	assert.Equal(t, []core.Pixel{{X: 210, Y: 300}, {X: 410, Y: 290}}, trend.Points)
	require.Len(t, trend.Handles, 2)
	assert.Equal(t, "start", trend.Handles[0].Name)

	fib := frame.Drawings[2]
	require.Len(t, fib.Levels, 3)
	assert.Equal(t, Level{Level: 0.5, Price: 150, Y: 250}, fib.Levels[1])
}

func TestBuildFrame_LiveGesture(t *testing.T) {
	m := newTestMachine(t)
	s := m.Session()
	s.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle))
	_, err := s.CreateAlert(context.Background(), alert.PriceAlert{ID: "a", DrawingID: "h", Message: "cross"})
	require.NoError(t, err)

	m.Dispatch(interaction.Event{Type: interaction.PointerDown, X: 500, Y: 250})
	m.Dispatch(interaction.Event{Type: interaction.PointerMove, X: 500, Y: 200})

	frame := BuildFrame(m)
	assert.Equal(t, "moving", frame.State)
	require.Len(t, frame.Drawings, 1)
	assert.Equal(t, 200.0, frame.Drawings[0].Points[0].Y)
	require.Len(t, frame.Alerts, 1)
	assert.Equal(t, AlertLine{ID: "a", DrawingID: "h", Price: 200, Y: 200, Message: "cross"}, frame.Alerts[0])
}

func TestBuildFrame_CurrentAndCrosshair(t *testing.T) {
	m := newTestMachine(t)

	m.Dispatch(interaction.Event{Type: interaction.PointerMove, X: 210, Y: 100})
	frame := BuildFrame(m)
	require.NotNil(t, frame.Crosshair)
	assert.Equal(t, at(10), frame.Crosshair.Time)
	assert.Equal(t, 300.0, frame.Crosshair.Price)
	require.NotNil(t, frame.Crosshair.Candle)
	assert.Equal(t, at(10), frame.Crosshair.Candle.Time)

	require.NoError(t, m.SetTool(drawing.KindRectangle))
	m.Dispatch(interaction.Event{Type: interaction.PointerDown, X: 210, Y: 300})
	m.Dispatch(interaction.Event{Type: interaction.PointerUp, X: 210, Y: 300})
	m.Dispatch(interaction.Event{Type: interaction.PointerMove, X: 310, Y: 350})

	frame = BuildFrame(m)
	require.NotNil(t, frame.Current)
	assert.Equal(t, drawing.KindRectangle, frame.Current.Kind)
	assert.Equal(t, 2, frame.Current.Step)
	assert.Equal(t, drawing.KindRectangle, frame.Tool)
}

func TestBuildFrame_Indicators(t *testing.T) {
	m := newTestMachine(t)
	s := m.Session()

	cfg, err := indicator.NewConfig("sma", indicator.TypeSMA, "#FF9800")
	require.NoError(t, err)
	cfg.Settings["period"] = 5
	_, err = s.AddIndicator(cfg)
	require.NoError(t, err)

	hidden, err := indicator.NewConfig("rsi", indicator.TypeRSI, "#00FF00")
	require.NoError(t, err)
	hidden.Visible = false
	_, err = s.AddIndicator(hidden)
	require.NoError(t, err)

	frame := BuildFrame(m)
	require.Len(t, frame.Indicators, 1)
	ind := frame.Indicators[0]
	assert.Equal(t, "sma", ind.ID)
	require.Len(t, ind.Metrics, 1)

	metric := ind.Metrics[0]
	require.NotEmpty(t, metric.Time)
	assert.GreaterOrEqual(t, metric.Time[0], at(0))
	assert.LessOrEqual(t, metric.Time[len(metric.Time)-1], at(50))
	assert.Len(t, metric.Values, len(metric.Time))
}

func TestWindow(t *testing.T) {
	times := []int64{1, 2, 3, 4, 5}
	first, last := window(times, 2, 4)
	assert.Equal(t, []int64{2, 3, 4}, times[first:last])

	first, last = window(times, 10, 20)
	assert.Empty(t, times[first:last])
}
