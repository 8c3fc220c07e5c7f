package viewport

import (
	"math"
	"testing"

	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hour = int64(3600)

func hourlyCandles(n int) []core.Candle {
	candles := make([]core.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = core.Candle{
			Time:  1_700_000_000 + int64(i)*hour,
			Open:  price,
			High:  price + 2,
			Low:   price - 2,
			Close: price + 1,
		}
	}
	return candles
}

func newModel(t *testing.T, n int) *Model {
	t.Helper()
	m := New(config.Default().Viewport, 1000, 500)
	m.SetCandles(hourlyCandles(n))
	m.SetView(core.ViewState{StartIndex: 0, VisibleCandles: 50})
	m.SetPriceRange(core.PriceRange{Min: 100, Max: 200})
	return m
}

func TestModel_IndexMapping(t *testing.T) {
	m := newModel(t, 100)

	assert.InDelta(t, 10.0, m.IndexToX(0), 1e-9)
	assert.InDelta(t, 30.0, m.IndexToX(1), 1e-9)
	assert.Equal(t, 0, m.XToIndex(0))
	assert.Equal(t, 0, m.XToIndex(19.9))
	assert.Equal(t, 1, m.XToIndex(20))
	assert.Equal(t, 7, m.XToIndex(m.IndexToX(7)))
}

func TestModel_PriceMapping(t *testing.T) {
	m := newModel(t, 100)

	assert.InDelta(t, 500.0, m.YScale(100), 1e-9)
	assert.InDelta(t, 0.0, m.YScale(200), 1e-9)
	assert.InDelta(t, 250.0, m.YScale(150), 1e-9)
	assert.InDelta(t, 150.0, m.YToPrice(250), 1e-9)

	// degenerate range short-circuits instead of dividing by zero
	m.prices = core.PriceRange{Min: 120, Max: 120}
	assert.Equal(t, 250.0, m.YScale(999))
	assert.Equal(t, 120.0, m.YToPrice(10))
}

func TestModel_TimeRoundTrip(t *testing.T) {
	m := newModel(t, 100)
	candles := m.Candles()

	for _, i := range []int{0, 1, 10, 57, 99} {
		ts := candles[i].Time
		assert.Equal(t, ts, m.XToTime(m.TimeToX(ts)), "candle %d", i)
	}

	// inside a candle slot
	mid := candles[10].Time + 1800
	assert.Equal(t, mid, m.XToTime(m.TimeToX(mid)))

	// extrapolated beyond the data, within one interval
	future := candles[99].Time + 5*hour
	assert.InDelta(t, float64(future), float64(m.XToTime(m.TimeToX(future))), float64(hour))
	past := candles[0].Time - 3*hour
	assert.InDelta(t, float64(past), float64(m.XToTime(m.TimeToX(past))), float64(hour))
	assert.InDelta(t, -3.0, m.TimeToIndex(past), 1e-9)
	assert.InDelta(t, 104.0, m.TimeToIndex(future), 1e-9)
}

func TestModel_CandleInterval(t *testing.T) {
	m := New(config.Default().Viewport, 1000, 500)
	assert.Equal(t, int64(3600), m.CandleInterval())

	m.SetTimeframe("4h")
	m.SetCandles([]core.Candle{{Time: 100}})
	assert.Equal(t, int64(4*3600), m.CandleInterval())

	m.SetCandles([]core.Candle{{Time: 0}, {Time: 60}, {Time: 300}, {Time: 360}})
	assert.Equal(t, int64(60), m.CandleInterval())
}

func TestModel_ClampedViewState(t *testing.T) {
	m := newModel(t, 100)
	cfg := config.Default().Viewport

	tt := []struct {
		name           string
		start, visible float64
	}{
		{"inside", 10, 40},
		{"too few candles", 10, 1},
		{"too many candles", 10, 1e9},
		{"far future", -1e6, 30},
		{"past the end", 1e6, 30},
		{"nan start", math.NaN(), 30},
		{"inf visible", 0, math.Inf(1)},
		{"negative visible", 5, -10},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v := m.ClampedViewState(tc.start, tc.visible)
			maxVisible := math.Max(100*cfg.MaxCandlesFactor, cfg.MaxCandlesCap)
			rightPadding := math.Max(cfg.RightPaddingMin, v.VisibleCandles/5)

			require.True(t, v.IsFinite())
			assert.GreaterOrEqual(t, v.VisibleCandles, cfg.MinCandles)
			assert.LessOrEqual(t, v.VisibleCandles, maxVisible)
			assert.GreaterOrEqual(t, v.StartIndex, -rightPadding)
			assert.LessOrEqual(t, v.StartIndex, 99.0)
		})
	}
}

func TestModel_ValidateView(t *testing.T) {
	m := newModel(t, 100)

	good := core.ViewState{StartIndex: 20, VisibleCandles: 40}
	assert.Equal(t, good, m.ValidateView(good))
	assert.Equal(t, m.DefaultView(), m.ValidateView(core.ViewState{StartIndex: math.NaN(), VisibleCandles: 40}))
	assert.Equal(t, m.DefaultView(), m.ValidateView(core.ViewState{StartIndex: 20, VisibleCandles: 1e9}))
}

func TestModel_AutoScaleRange(t *testing.T) {
	m := newModel(t, 100)
	m.SetView(core.ViewState{StartIndex: 10, VisibleCandles: 10})

	r, ok := m.AutoScaleRange()
	require.True(t, ok)
	// visible candles 10..20: low 108, high 122, padded by 10% of 14
	assert.InDelta(t, 108-1.4, r.Min, 1e-9)
	assert.InDelta(t, 122+1.4, r.Max, 1e-9)

	empty := New(config.Default().Viewport, 100, 100)
	_, ok = empty.AutoScaleRange()
	assert.False(t, ok)
}
