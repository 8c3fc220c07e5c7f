package viewport

import (
	"math"

	"github.com/raykavin/chartcore/pkg/core"
)

// ZoomFactor converts a gesture delta into a multiplicative zoom factor.
// Zooming is exponential so equal deltas in opposite directions cancel out.
func ZoomFactor(delta, sensitivity float64) float64 {
	return math.Exp(delta * sensitivity)
}

// ZoomX rescales the visible candle count by the wheel delta. When the last
// candle is on screen it keeps its screen ratio, otherwise the right edge is
// the anchor.
func (m *Model) ZoomX(delta float64) core.ViewState {
	factor := ZoomFactor(delta, m.settings.ZoomSensitivity)
	view := m.view
	target := m.ClampedViewState(view.StartIndex, view.VisibleCandles*factor)

	last := float64(len(m.candles) - 1)
	var start float64
	if len(m.candles) > 0 && last >= view.StartIndex && last < view.EndIndex() {
		ratio := (last - view.StartIndex) / view.VisibleCandles
		start = last - ratio*target.VisibleCandles
	} else {
		start = view.EndIndex() - target.VisibleCandles
	}

	m.view = m.ClampedViewState(start, target.VisibleCandles)
	return m.view
}

// ZoomY rescales the price range around its center
func (m *Model) ZoomY(delta float64) core.PriceRange {
	factor := ZoomFactor(delta, m.settings.ZoomSensitivity)
	m.SetPriceRange(m.prices.Scale(factor))
	return m.prices
}

// Pan shifts the view by a pixel delta measured from the gesture start.
// When shiftPrice is set the price range follows the vertical delta too.
func (m *Model) Pan(initial core.ViewState, initialRange core.PriceRange, dx, dy float64, shiftPrice bool) {
	step := m.width / initial.VisibleCandles
	if step > core.Epsilon {
		m.view = m.ClampedViewState(initial.StartIndex-dx/step, initial.VisibleCandles)
	}

	if shiftPrice && m.height > core.Epsilon {
		m.SetPriceRange(initialRange.Shift(dy / m.height * initialRange.Span()))
	}
}

// ScaleX handles a drag on the time axis. Dragging right shows fewer
// candles. The anchor is the edge opposite to where the drag started.
func (m *Model) ScaleX(initial core.ViewState, originX, dx float64) {
	factor := ZoomFactor(-dx, m.settings.AxisDragSensitivity)
	target := m.ClampedViewState(initial.StartIndex, initial.VisibleCandles*factor)

	start := initial.StartIndex
	if originX < m.width/2 {
		start = initial.EndIndex() - target.VisibleCandles
	}

	m.view = m.ClampedViewState(start, target.VisibleCandles)
}

// ScaleY handles a drag on the price axis. Dragging down widens the range.
func (m *Model) ScaleY(initialRange core.PriceRange, dy float64) {
	m.SetPriceRange(initialRange.Scale(ZoomFactor(dy, m.settings.AxisDragSensitivity)))
}

// Pinch holds the state captured when a two-pointer gesture starts
type Pinch struct {
	InitialDistance    float64
	InitialVisible     float64
	InitialCenterIndex float64
	InitialCenterPrice float64
	InitialRange       core.PriceRange
}

// BeginPinch captures the gesture anchor for two pointers
func (m *Model) BeginPinch(a, b core.Pixel) Pinch {
	center := midpoint(a, b)
	return Pinch{
		InitialDistance:    a.Distance(b),
		InitialVisible:     m.view.VisibleCandles,
		InitialCenterIndex: m.xToFractional(center.X),
		InitialCenterPrice: m.YToPrice(center.Y),
		InitialRange:       m.prices,
	}
}

// PinchTo updates the view for the current pointer positions so that the
// captured center index stays under the pointers' midpoint. With
// followPrice set the captured center price is kept under the midpoint too.
func (m *Model) PinchTo(p Pinch, a, b core.Pixel, followPrice bool) {
	distance := a.Distance(b)
	if distance <= core.Epsilon || p.InitialDistance <= core.Epsilon {
		return
	}

	center := midpoint(a, b)
	target := m.ClampedViewState(m.view.StartIndex, p.InitialVisible*p.InitialDistance/distance)

	step := m.width / target.VisibleCandles
	if step <= core.Epsilon {
		return
	}
	m.view = m.ClampedViewState(p.InitialCenterIndex-center.X/step, target.VisibleCandles)

	if followPrice && m.height > core.Epsilon {
		span := p.InitialRange.Span()
		minPrice := p.InitialCenterPrice - (m.height-center.Y)/m.height*span
		m.SetPriceRange(core.PriceRange{Min: minPrice, Max: minPrice + span})
	}
}

func midpoint(a, b core.Pixel) core.Pixel {
	return core.Pixel{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
