package drawing

import (
	"math"

	"github.com/raykavin/chartcore/pkg/core"
)

// Projector maps domain coordinates to chart pixels
type Projector interface {
	TimeToX(t int64) float64
	YScale(price float64) float64
	Size() (width, height float64)
}

// Tolerance holds the pixel radii used by hit-testing
type Tolerance struct {
	HandleRadius float64
	HitboxWidth  float64
}

// Part tells which part of a drawing was hit
type Part int

const (
	PartBody Part = iota
	PartHandle
)

// Hit is the result of a successful hit-test
type Hit struct {
	ID     string
	Part   Part
	Handle HandleID
}

// text label metrics used for note and callout boxes
const (
	charWidth      = 7.0
	minLabelWidth  = 40.0
	labelHeight    = 16.0
	labelPaddingPx = 4.0
)

// ToPixel projects a domain point
func ToPixel(p Projector, pt core.Point) core.Pixel {
	return core.Pixel{X: p.TimeToX(pt.Time), Y: p.YScale(pt.Price)}
}

// HitTest checks handles first and then the body of d. Invisible drawings
// never hit.
func HitTest(d Drawing, at core.Pixel, p Projector, tol Tolerance) (Hit, bool) {
	if !d.Visible || d.Shape == nil {
		return Hit{}, false
	}

	radiusSq := tol.HandleRadius * tol.HandleRadius
	for _, h := range Handles(d.Shape) {
		if ToPixel(p, h.Point).DistanceSq(at) <= radiusSq {
			return Hit{ID: d.ID, Part: PartHandle, Handle: h.ID}, true
		}
	}

	if box, ok := d.Shape.(Box); ok && box.Variant != KindGannBox {
		if edge, ok := boxEdge(box, at, p, tol.HitboxWidth); ok {
			return Hit{ID: d.ID, Part: PartHandle, Handle: HandleID{Name: edge}}, true
		}
	}

	if hitBody(d.Shape, at, p, tol.HitboxWidth) {
		return Hit{ID: d.ID, Part: PartBody}, true
	}
	return Hit{}, false
}

func hitBody(s Shape, at core.Pixel, p Projector, w float64) bool {
	wSq := w * w
	width, _ := p.Size()

	switch v := s.(type) {
	case HorizontalLine:
		return math.Abs(at.Y-p.YScale(v.Price)) <= w
	case VerticalLine:
		return math.Abs(at.X-p.TimeToX(v.Time)) <= w
	case TextNote:
		return inLabel(ToPixel(p, v.At), v.Text, at, w)
	case Line:
		a, b := ToPixel(p, v.Start), ToPixel(p, v.End)
		switch v.Variant {
		case KindRay:
			return rayDistanceSq(at, a, b) <= wSq
		case KindHorizontalRay:
			edge := width
			if v.End.Time < v.Start.Time {
				edge = 0
			}
			return segmentDistanceSq(at, a, core.Pixel{X: edge, Y: a.Y}) <= wSq
		default:
			return segmentDistanceSq(at, a, b) <= wSq
		}
	case Box:
		return inRect(ToPixel(p, v.Start), ToPixel(p, v.End), at, w)
	case Fibonacci:
		return hitFibonacci(v, at, p, w)
	case Channel:
		a, b := ToPixel(p, v.Start), ToPixel(p, v.End)
		c, d := ToPixel(p, v.P2), ToPixel(p, v.P2End())
		mid1 := core.Pixel{X: (a.X + c.X) / 2, Y: (a.Y + c.Y) / 2}
		mid2 := core.Pixel{X: (b.X + d.X) / 2, Y: (b.Y + d.Y) / 2}
		if segmentDistanceSq(at, a, b) <= wSq ||
			segmentDistanceSq(at, c, d) <= wSq ||
			segmentDistanceSq(at, mid1, mid2) <= wSq {
			return true
		}
		return inConvex([]core.Pixel{a, b, d, c}, at)
	case Position:
		corner := ToPixel(p, v.Profit)
		entry := ToPixel(p, core.Point{Time: v.Entry.Time, Price: v.Stop.Price})
		return inRect(entry, corner, at, w)
	case Path:
		return hitPolyline(v.Points, at, p, wSq)
	case Brush:
		return hitPolyline(v.Points, at, p, wSq)
	case Callout:
		anchor, label := ToPixel(p, v.Anchor), ToPixel(p, v.Label)
		return segmentDistanceSq(at, anchor, label) <= wSq || inLabel(label, v.Text, at, w)
	}
	return false
}

func hitFibonacci(f Fibonacci, at core.Pixel, p Projector, w float64) bool {
	a, b := ToPixel(p, f.Start), ToPixel(p, f.End)
	if segmentDistanceSq(at, a, b) <= w*w {
		return true
	}

	left, right := math.Min(a.X, b.X), math.Max(a.X, b.X)
	if at.X < left-w || at.X > right+w {
		return false
	}

	top, bottom := math.Inf(1), math.Inf(-1)
	for _, level := range f.Levels {
		y := p.YScale(f.LevelPrice(level))
		if math.Abs(at.Y-y) <= w {
			return true
		}
		top, bottom = math.Min(top, y), math.Max(bottom, y)
	}
	return at.X >= left && at.X <= right && at.Y >= top && at.Y <= bottom
}

func hitPolyline(points []core.Point, at core.Pixel, p Projector, wSq float64) bool {
	if len(points) == 1 {
		return ToPixel(p, points[0]).DistanceSq(at) <= wSq
	}
	for i := 1; i < len(points); i++ {
		if segmentDistanceSq(at, ToPixel(p, points[i-1]), ToPixel(p, points[i])) <= wSq {
			return true
		}
	}
	return false
}

// boxEdge finds the edge of a rectangle-like shape under the cursor
func boxEdge(b Box, at core.Pixel, p Projector, w float64) (string, bool) {
	s, e := ToPixel(p, b.Start), ToPixel(p, b.End)
	left, right := math.Min(s.X, e.X), math.Max(s.X, e.X)
	top, bottom := math.Min(s.Y, e.Y), math.Max(s.Y, e.Y)
	wSq := w * w

	edges := []struct {
		name string
		a, b core.Pixel
	}{
		{HandleTop, core.Pixel{X: left, Y: top}, core.Pixel{X: right, Y: top}},
		{HandleBottom, core.Pixel{X: left, Y: bottom}, core.Pixel{X: right, Y: bottom}},
		{HandleLeft, core.Pixel{X: left, Y: top}, core.Pixel{X: left, Y: bottom}},
		{HandleRight, core.Pixel{X: right, Y: top}, core.Pixel{X: right, Y: bottom}},
	}
	for _, edge := range edges {
		if segmentDistanceSq(at, edge.a, edge.b) <= wSq {
			return edge.name, true
		}
	}
	return "", false
}

func inRect(a, b, at core.Pixel, w float64) bool {
	left, right := math.Min(a.X, b.X)-w, math.Max(a.X, b.X)+w
	top, bottom := math.Min(a.Y, b.Y)-w, math.Max(a.Y, b.Y)+w
	return at.X >= left && at.X <= right && at.Y >= top && at.Y <= bottom
}

func inLabel(origin core.Pixel, text string, at core.Pixel, w float64) bool {
	width := math.Max(minLabelWidth, charWidth*float64(len(text))) + 2*labelPaddingPx
	corner := core.Pixel{X: origin.X + width, Y: origin.Y - labelHeight - 2*labelPaddingPx}
	return inRect(origin, corner, at, w)
}

// inConvex reports whether at lies inside the convex polygon poly
func inConvex(poly []core.Pixel, at core.Pixel) bool {
	var sign float64
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(at.Y-a.Y) - (b.Y-a.Y)*(at.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
			continue
		}
		if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

// segmentDistanceSq returns the squared distance from p to segment ab
func segmentDistanceSq(p, a, b core.Pixel) float64 {
	return projectedDistanceSq(p, a, b, false)
}

// rayDistanceSq returns the squared distance from p to the ray from a through b
func rayDistanceSq(p, a, b core.Pixel) float64 {
	return projectedDistanceSq(p, a, b, true)
}

func projectedDistanceSq(p, a, b core.Pixel, open bool) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq < core.Epsilon {
		return p.DistanceSq(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 && !open {
		t = 1
	}
	closest := core.Pixel{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.DistanceSq(closest)
}
