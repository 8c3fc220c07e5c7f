package drawing

import (
	"math"

	"github.com/raykavin/chartcore/pkg/core"
)

// HandleID names a draggable control point. Index is only used by Path
// vertices.
type HandleID struct {
	Name  string `json:"name"`
	Index int    `json:"index,omitempty"`
}

// Handle names
const (
	HandleStart    = "start"
	HandleEnd      = "end"
	HandleStartEnd = "start_end"
	HandleEndStart = "end_start"
	HandleP2       = "p2"
	HandleP2End    = "p2_end"
	HandleEntry    = "entry"
	HandleProfit   = "profit"
	HandleStop     = "stop"
	HandleAnchor   = "anchor"
	HandleLabel    = "label"
	HandlePoint    = "point"
	HandleTop      = "top"
	HandleBottom   = "bottom"
	HandleLeft     = "left"
	HandleRight    = "right"
)

// Handle is a named control point in domain space
type Handle struct {
	ID    HandleID
	Point core.Point
}

// Handles lists the point handles of a shape. Box edges are not listed here,
// they are found by edge proximity during hit-testing.
func Handles(s Shape) []Handle {
	switch v := s.(type) {
	case Line:
		if v.Variant == KindHorizontalRay {
			return []Handle{{ID: HandleID{Name: HandleStart}, Point: v.Start}}
		}
		return []Handle{
			{ID: HandleID{Name: HandleStart}, Point: v.Start},
			{ID: HandleID{Name: HandleEnd}, Point: v.End},
		}
	case Box:
		return []Handle{
			{ID: HandleID{Name: HandleStart}, Point: v.Start},
			{ID: HandleID{Name: HandleEnd}, Point: v.End},
			{ID: HandleID{Name: HandleStartEnd}, Point: core.Point{Time: v.Start.Time, Price: v.End.Price}},
			{ID: HandleID{Name: HandleEndStart}, Point: core.Point{Time: v.End.Time, Price: v.Start.Price}},
		}
	case Fibonacci:
		return []Handle{
			{ID: HandleID{Name: HandleStart}, Point: v.Start},
			{ID: HandleID{Name: HandleEnd}, Point: v.End},
		}
	case Channel:
		return []Handle{
			{ID: HandleID{Name: HandleStart}, Point: v.Start},
			{ID: HandleID{Name: HandleEnd}, Point: v.End},
			{ID: HandleID{Name: HandleP2}, Point: v.P2},
			{ID: HandleID{Name: HandleP2End}, Point: v.P2End()},
		}
	case Position:
		return []Handle{
			{ID: HandleID{Name: HandleEntry}, Point: v.Entry},
			{ID: HandleID{Name: HandleProfit}, Point: v.Profit},
			{ID: HandleID{Name: HandleStop}, Point: v.Stop},
		}
	case Path:
		handles := make([]Handle, len(v.Points))
		for i, p := range v.Points {
			handles[i] = Handle{ID: HandleID{Name: HandlePoint, Index: i}, Point: p}
		}
		return handles
	case Callout:
		return []Handle{
			{ID: HandleID{Name: HandleAnchor}, Point: v.Anchor},
			{ID: HandleID{Name: HandleLabel}, Point: v.Label},
		}
	}
	return nil
}

// Translate shifts every point of the shape by a domain delta
func Translate(s Shape, dt int64, dp float64) Shape {
	switch v := s.(type) {
	case HorizontalLine:
		v.Price += dp
		return v
	case VerticalLine:
		v.Time += dt
		return v
	case TextNote:
		v.At = v.At.Add(dt, dp)
		return v
	case Line:
		v.Start, v.End = v.Start.Add(dt, dp), v.End.Add(dt, dp)
		return v
	case Box:
		v.Start, v.End = v.Start.Add(dt, dp), v.End.Add(dt, dp)
		return v
	case Fibonacci:
		v.Start, v.End = v.Start.Add(dt, dp), v.End.Add(dt, dp)
		v.Levels = append([]float64(nil), v.Levels...)
		return v
	case Channel:
		v.Start, v.End, v.P2 = v.Start.Add(dt, dp), v.End.Add(dt, dp), v.P2.Add(dt, dp)
		return v
	case Position:
		v.Entry, v.Profit, v.Stop = v.Entry.Add(dt, dp), v.Profit.Add(dt, dp), v.Stop.Add(dt, dp)
		return v
	case Path:
		v.Points = translatePoints(v.Points, dt, dp)
		return v
	case Brush:
		v.Points = translatePoints(v.Points, dt, dp)
		return v
	case Callout:
		v.Anchor, v.Label = v.Anchor.Add(dt, dp), v.Label.Add(dt, dp)
		return v
	}
	return s
}

func translatePoints(points []core.Point, dt int64, dp float64) []core.Point {
	out := make([]core.Point, len(points))
	for i, p := range points {
		out[i] = p.Add(dt, dp)
	}
	return out
}

// MoveHandle applies a domain delta to one handle of the shape as it was at
// the start of the gesture. It returns false for unknown handles.
func MoveHandle(s Shape, h HandleID, dt int64, dp float64) (Shape, bool) {
	switch v := s.(type) {
	case Line:
		switch h.Name {
		case HandleStart:
			v.Start = v.Start.Add(dt, dp)
		case HandleEnd:
			v.End = v.End.Add(dt, dp)
		default:
			return s, false
		}
		return v, true
	case Box:
		return moveBoxHandle(v, h, dt, dp)
	case Fibonacci:
		switch h.Name {
		case HandleStart:
			v.Start = v.Start.Add(dt, dp)
		case HandleEnd:
			v.End = v.End.Add(dt, dp)
		default:
			return s, false
		}
		v.Levels = append([]float64(nil), v.Levels...)
		return v, true
	case Channel:
		switch h.Name {
		case HandleStart:
			v.Start = v.Start.Add(dt, dp)
			v.P2 = v.P2.Add(dt, dp)
		case HandleEnd:
			v.End = v.End.Add(dt, dp)
		case HandleP2:
			v.P2 = v.P2.Add(dt, dp)
		case HandleP2End:
			// p2_end = p2 + (end - start), so moving it moves p2 by the same
			// delta and the parallel line keeps the baseline's length
			v.P2 = v.P2.Add(dt, dp)
		default:
			return s, false
		}
		v.P2 = ProjectP2(v.Start, v.End, v.P2)
		return v, true
	case Position:
		switch h.Name {
		case HandleEntry:
			v.Entry = v.Entry.Add(dt, dp)
		case HandleProfit:
			v.Profit = v.Profit.Add(dt, dp)
			v.Stop.Time = v.Profit.Time
		case HandleStop:
			v.Stop = v.Stop.Add(dt, dp)
			v.Profit.Time = v.Stop.Time
		default:
			return s, false
		}
		return v, true
	case Path:
		if h.Name != HandlePoint || h.Index < 0 || h.Index >= len(v.Points) {
			return s, false
		}
		points := append([]core.Point(nil), v.Points...)
		points[h.Index] = points[h.Index].Add(dt, dp)
		v.Points = points
		return v, true
	case Callout:
		switch h.Name {
		case HandleAnchor:
			v.Anchor = v.Anchor.Add(dt, dp)
		case HandleLabel:
			v.Label = v.Label.Add(dt, dp)
		default:
			return s, false
		}
		return v, true
	}
	return s, false
}

func moveBoxHandle(v Box, h HandleID, dt int64, dp float64) (Shape, bool) {
	switch h.Name {
	case HandleStart:
		v.Start = v.Start.Add(dt, dp)
	case HandleEnd:
		v.End = v.End.Add(dt, dp)
	case HandleStartEnd:
		v.Start.Time += dt
		v.End.Price += dp
	case HandleEndStart:
		v.End.Time += dt
		v.Start.Price += dp
	case HandleTop:
		if v.Start.Price >= v.End.Price {
			v.Start.Price += dp
		} else {
			v.End.Price += dp
		}
	case HandleBottom:
		if v.Start.Price < v.End.Price {
			v.Start.Price += dp
		} else {
			v.End.Price += dp
		}
	case HandleLeft:
		if v.Start.Time <= v.End.Time {
			v.Start.Time += dt
		} else {
			v.End.Time += dt
		}
	case HandleRight:
		if v.Start.Time > v.End.Time {
			v.Start.Time += dt
		} else {
			v.End.Time += dt
		}
	default:
		return v, false
	}
	return v, true
}

// Points returns the domain points that define s, in drawing order.
// Horizontal and vertical lines span the whole chart and have none.
func Points(s Shape) []core.Point {
	switch v := s.(type) {
	case TextNote:
		return []core.Point{v.At}
	case Line:
		return []core.Point{v.Start, v.End}
	case Box:
		return []core.Point{v.Start, v.End}
	case Fibonacci:
		return []core.Point{v.Start, v.End}
	case Channel:
		return []core.Point{v.Start, v.End, v.P2, v.P2End()}
	case Position:
		return []core.Point{v.Entry, v.Profit, v.Stop}
	case Path:
		return append([]core.Point(nil), v.Points...)
	case Brush:
		return append([]core.Point(nil), v.Points...)
	case Callout:
		return []core.Point{v.Anchor, v.Label}
	}
	return nil
}

// Clone returns a copy of d under a new id shifted one candle interval
// forward. A horizontal line has no time axis so its price is nudged up
// by 0.1% instead.
func Clone(d Drawing, id string, interval int64) Drawing {
	out := d.Copy()
	out.ID = id
	if hl, ok := out.Shape.(HorizontalLine); ok {
		hl.Price *= 1.001
		out.Shape = hl
		return out
	}
	out.Shape = Translate(out.Shape, interval, 0)
	return out
}

// LinePrice evaluates the line through a and b at time t. A vertical line
// evaluates to a's price.
func LinePrice(a, b core.Point, t int64) float64 {
	if a.Time == b.Time {
		return a.Price
	}
	slope := (b.Price - a.Price) / float64(b.Time-a.Time)
	return a.Price + slope*float64(t-a.Time)
}

// ProjectP2 moves p along the baseline direction until it shares start's time,
// keeping its signed offset from the baseline.
func ProjectP2(start, end, p core.Point) core.Point {
	offset := p.Price - LinePrice(start, end, p.Time)
	return core.Point{Time: start.Time, Price: start.Price + offset}
}

// P2End returns the end of the parallel line
func (c Channel) P2End() core.Point {
	dt, dp := c.End.Sub(c.Start)
	return c.P2.Add(dt, dp)
}

// Offset returns the signed price distance of the parallel line
func (c Channel) Offset() float64 { return c.P2.Price - c.Start.Price }

// LevelPrice returns the price of a retracement ratio
func (f Fibonacci) LevelPrice(level float64) float64 {
	return f.Start.Price + (f.End.Price-f.Start.Price)*level
}

// PriceAt evaluates a line-like shape at time t. Only shapes that describe a
// single price per time resolve.
func PriceAt(s Shape, t int64) (float64, bool) {
	var price float64
	switch v := s.(type) {
	case HorizontalLine:
		price = v.Price
	case Line:
		switch v.Variant {
		case KindHorizontalRay:
			price = v.Start.Price
		case KindTrendLine, KindRay, KindArrow:
			price = LinePrice(v.Start, v.End, t)
		default:
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}
