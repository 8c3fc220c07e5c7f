package plot

import (
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/core"
)

// visibleCandles returns the candles inside the view, transformed for the
// session chart type.
func visibleCandles(s *chart.Session) []Candle {
	vp := s.Viewport()
	from, to, ok := vp.VisibleRange()
	if !ok {
		return []Candle{}
	}

	source := s.Candles()
	if s.ChartType() == core.ChartHeikinAshi {
		// each bar depends on the previous one, so the whole series is converted
		source = core.HeikinAshiSeries(source)
	}

	candles := make([]Candle, 0, to-from+1)
	for i := from; i <= to; i++ {
		c := source[i]
		candles = append(candles, Candle{
			Index:  i,
			Time:   c.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
			X:      vp.IndexToX(float64(i)),
			OpenY:  vp.YScale(c.Open),
			HighY:  vp.YScale(c.High),
			LowY:   vp.YScale(c.Low),
			CloseY: vp.YScale(c.Close),
		})
	}
	return candles
}

// crosshair builds the tooltip for a crosshair position
func crosshair(s *chart.Session, px core.Pixel) *Crosshair {
	vp := s.Viewport()
	out := &Crosshair{
		X:     px.X,
		Y:     px.Y,
		Time:  vp.XToTime(px.X),
		Price: vp.YToPrice(px.Y),
	}

	candles := s.Candles()
	if i := vp.XToIndex(px.X); i >= 0 && i < len(candles) {
		c := candles[i]
		out.Candle = &c
	}
	return out
}
