package plot

import (
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/interaction"
)

// BuildFrame collects the render state of the machine's session, including
// the live gesture state: the drawing under construction, the geometry of a
// drawing being dragged and the crosshair.
func BuildFrame(m *interaction.Machine) Frame {
	s := m.Session()
	vp := s.Viewport()
	width, height := vp.Size()

	frame := Frame{
		Symbol:     s.Symbol(),
		Width:      width,
		Height:     height,
		View:       vp.View(),
		PriceRange: vp.PriceRange(),
		ChartType:  s.ChartType(),
		AutoScale:  s.AutoScale(),
		State:      string(m.State().Name()),
		Tool:       m.Tool(),
		Candles:    visibleCandles(s),
		Drawings:   drawingShapes(s, m.Override()),
		Alerts:     alertLines(s, m.ActiveAlerts()),
		Indicators: indicators(s),
	}

	if current, ok := m.CurrentDrawing(); ok {
		shape := project(s, current.Drawing)
		shape.Step = current.Step
		frame.Current = &shape
	}

	if px, ok := m.Crosshair(); ok {
		frame.Crosshair = crosshair(s, px)
	}

	return frame
}

func alertLines(s *chart.Session, alerts []chart.ResolvedAlert) []AlertLine {
	vp := s.Viewport()
	lines := make([]AlertLine, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, AlertLine{
			ID:        a.Alert.ID,
			DrawingID: a.Alert.DrawingID,
			Price:     a.Price,
			Y:         vp.YScale(a.Price),
			Message:   a.Alert.Message,
			Triggered: a.Alert.Triggered,
		})
	}
	return lines
}
