// Package viewport maps candle indices, times and prices to pixels and owns
// the clamping rules of every navigation gesture.
package viewport

import (
	"math"
	"sort"

	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"gonum.org/v1/gonum/floats"
)

const defaultIntervalSeconds = 3600

// Model is the coordinate transform between domain and screen space
type Model struct {
	width, height float64

	view   core.ViewState
	prices core.PriceRange

	candles   []core.Candle
	interval  int64
	timeframe string
	settings  config.ViewportSettings
}

// New creates a viewport of the given chart-area size with default settings
// from cfg. Call SetCandles before navigating.
func New(cfg config.ViewportSettings, width, height float64) *Model {
	m := &Model{
		width:     width,
		height:    height,
		settings:  cfg,
		timeframe: cfg.Timeframe,
		prices:    core.PriceRange{Min: 0, Max: 1},
	}
	m.interval = m.deriveInterval()
	m.view = m.DefaultView()
	return m
}

// SetCandles replaces the data series and recomputes the candle interval
func (m *Model) SetCandles(candles []core.Candle) {
	m.candles = candles
	m.interval = m.deriveInterval()
	m.view = m.ClampedViewState(m.view.StartIndex, m.view.VisibleCandles)
}

// SetTimeframe sets the label used when the data is too short to derive
// an interval.
func (m *Model) SetTimeframe(label string) {
	m.timeframe = label
	m.interval = m.deriveInterval()
}

// Resize updates the chart-area size in pixels
func (m *Model) Resize(width, height float64) {
	m.width, m.height = width, height
}

func (m *Model) Candles() []core.Candle            { return m.candles }
func (m *Model) Len() int                          { return len(m.candles) }
func (m *Model) View() core.ViewState              { return m.view }
func (m *Model) PriceRange() core.PriceRange       { return m.prices }
func (m *Model) Size() (float64, float64)          { return m.width, m.height }
func (m *Model) CandleInterval() int64             { return m.interval }
func (m *Model) Settings() config.ViewportSettings { return m.settings }

// SetView stores a view after clamping it
func (m *Model) SetView(v core.ViewState) {
	m.view = m.ClampedViewState(v.StartIndex, v.VisibleCandles)
}

// SetPriceRange stores a normalized price range; non-finite ranges are ignored
func (m *Model) SetPriceRange(r core.PriceRange) {
	if !r.IsFinite() {
		return
	}
	m.prices = r.Normalize()
}

// XStep returns the width of one candle slot in pixels
func (m *Model) XStep() float64 {
	if m.view.VisibleCandles <= core.Epsilon {
		return 0
	}
	return m.width / m.view.VisibleCandles
}

// IndexToX returns the pixel center of the candle at the absolute data index
func (m *Model) IndexToX(index float64) float64 {
	return (index - m.view.StartIndex + 0.5) * m.XStep()
}

// XToIndex returns the absolute data index under pixel x
func (m *Model) XToIndex(x float64) int {
	return int(math.Floor(m.xToFractional(x)))
}

// xToFractional is the continuous inverse of IndexToX shifted so that
// candle i covers [i, i+1).
func (m *Model) xToFractional(x float64) float64 {
	step := m.XStep()
	if step <= core.Epsilon {
		return m.view.StartIndex
	}
	return x/step + m.view.StartIndex
}

// YScale maps a price onto [height, 0]
func (m *Model) YScale(price float64) float64 {
	span := m.prices.Span()
	if math.Abs(span) < core.Epsilon {
		return m.height / 2
	}
	return m.height - (price-m.prices.Min)/span*m.height
}

// YToPrice is the inverse of YScale
func (m *Model) YToPrice(y float64) float64 {
	span := m.prices.Span()
	if math.Abs(span) < core.Epsilon || m.height <= core.Epsilon {
		return m.prices.Min
	}
	return m.prices.Min + (m.height-y)/m.height*span
}

// ClampedViewState enforces the view invariant on a requested window. It is
// the only way navigation gestures produce a view.
func (m *Model) ClampedViewState(start, visible float64) core.ViewState {
	n := float64(len(m.candles))

	if math.IsNaN(visible) || math.IsInf(visible, 0) {
		visible = m.view.VisibleCandles
		if math.IsNaN(visible) || math.IsInf(visible, 0) || visible <= 0 {
			visible = m.settings.DefaultVisible
		}
	}

	maxVisible := math.Max(n*m.settings.MaxCandlesFactor, m.settings.MaxCandlesCap)
	visible = clamp(visible, m.settings.MinCandles, maxVisible)

	rightPadding := math.Max(m.settings.RightPaddingMin, visible/5)
	lower, upper := -rightPadding, math.Max(n-1, -rightPadding)

	if math.IsNaN(start) || math.IsInf(start, 0) {
		start = upper - visible
	}

	return core.ViewState{
		StartIndex:     clamp(start, lower, upper),
		VisibleCandles: visible,
	}
}

// DefaultView shows the most recent candles with a small right margin
func (m *Model) DefaultView() core.ViewState {
	n := float64(len(m.candles))
	visible := m.settings.DefaultVisible
	if n > 0 {
		visible = math.Min(visible, math.Max(n, m.settings.MinCandles))
	}
	return m.ClampedViewState(n-visible*0.9, visible)
}

// ValidateView returns v when it is usable, otherwise the default view. It is
// meant for restored settings, which may be corrupted.
func (m *Model) ValidateView(v core.ViewState) core.ViewState {
	if !v.IsFinite() || v.VisibleCandles <= 0 {
		return m.DefaultView()
	}
	clamped := m.ClampedViewState(v.StartIndex, v.VisibleCandles)
	if clamped != v {
		return m.DefaultView()
	}
	return v
}

// VisibleRange returns the clamped integer index bounds [from, to] of
// candles that intersect the view. ok is false when nothing is visible.
func (m *Model) VisibleRange() (from, to int, ok bool) {
	n := len(m.candles)
	if n == 0 {
		return 0, 0, false
	}
	from = int(math.Max(0, math.Floor(m.view.StartIndex)))
	to = int(math.Min(float64(n-1), math.Ceil(m.view.EndIndex())))
	return from, to, from <= to
}

// AutoScaleRange computes the price range that fits the visible candles,
// padded by PricePadding of the span on each side.
func (m *Model) AutoScaleRange() (core.PriceRange, bool) {
	from, to, ok := m.VisibleRange()
	if !ok {
		return core.PriceRange{}, false
	}

	lows := make([]float64, 0, to-from+1)
	highs := make([]float64, 0, to-from+1)
	for _, c := range m.candles[from : to+1] {
		lows = append(lows, c.Low)
		highs = append(highs, c.High)
	}

	low, high := floats.Min(lows), floats.Max(highs)
	pad := (high - low) * m.settings.PricePadding
	return core.PriceRange{Min: low - pad, Max: high + pad}.Normalize(), true
}

// deriveInterval uses the smallest positive spacing between candles, or the
// timeframe table when there are fewer than two candles.
func (m *Model) deriveInterval() int64 {
	if len(m.candles) >= 2 {
		best := int64(0)
		for i := 1; i < len(m.candles); i++ {
			d := m.candles[i].Time - m.candles[i-1].Time
			if d > 0 && (best == 0 || d < best) {
				best = d
			}
		}
		if best > 0 {
			return best
		}
	}
	return config.IntervalSeconds(m.timeframe, defaultIntervalSeconds)
}

// searchTime returns the index of the last candle with Time <= t
func (m *Model) searchTime(t int64) int {
	return sort.Search(len(m.candles), func(i int) bool {
		return m.candles[i].Time > t
	}) - 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
