package drawing

import (
	"math"

	"github.com/raykavin/chartcore/pkg/core"
)

// Surface is the viewport as seen by point capture
type Surface interface {
	Projector
	XToTime(x float64) int64
	YToPrice(y float64) float64
	XToIndex(x float64) int
	IndexToX(index float64) float64
	Candles() []core.Candle
	CandleInterval() int64
}

// Snapper substitutes nearby OHLC values for raw cursor prices
type Snapper struct {
	Enabled   bool
	Radius    int
	Threshold float64
}

// NewSnapper creates an enabled snapper
func NewSnapper(radius int, threshold float64) *Snapper {
	return &Snapper{Enabled: true, Radius: radius, Threshold: threshold}
}

// Raw converts a pixel to its unsnapped domain point
func Raw(s Surface, px core.Pixel) core.Point {
	return core.Point{Time: s.XToTime(px.X), Price: s.YToPrice(px.Y)}
}

// Snap returns the OHLC value of a candle within Radius of the cursor whose
// price lies within Threshold pixels, preferring the nearest one. Without a
// candidate the raw point is returned.
func (sn *Snapper) Snap(s Surface, px core.Pixel) core.Point {
	raw := Raw(s, px)
	candles := s.Candles()
	if sn == nil || !sn.Enabled || len(candles) == 0 {
		return raw
	}

	center := s.XToIndex(px.X)
	from := max(center-sn.Radius, 0)
	to := min(center+sn.Radius, len(candles)-1)

	best, bestDist, found := raw, math.Inf(1), false
	for i := from; i <= to; i++ {
		x := s.IndexToX(float64(i))
		for _, value := range candles[i].OHLC() {
			dy := s.YScale(value) - px.Y
			if math.Abs(dy) > sn.Threshold {
				continue
			}
			dx := x - px.X
			if dist := dx*dx + dy*dy; dist < bestDist {
				best = core.Point{Time: candles[i].Time, Price: value}
				bestDist, found = dist, true
			}
		}
	}
	if !found {
		return raw
	}
	return best
}
