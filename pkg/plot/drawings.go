package plot

import (
	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

// drawingShapes projects every visible drawing, replacing the stored one by
// the live override of a running move or resize.
func drawingShapes(s *chart.Session, override *drawing.Drawing) []Shape {
	selected, _ := s.Selected()
	shapes := make([]Shape, 0, len(s.Drawings()))
	for _, d := range s.Drawings() {
		if override != nil && override.ID == d.ID {
			d = *override
		}
		if !d.Visible {
			continue
		}
		shape := project(s, d)
		shape.Selected = d.ID == selected
		shapes = append(shapes, shape)
	}
	return shapes
}

// project converts a drawing into pixel space
func project(s *chart.Session, d drawing.Drawing) Shape {
	vp := s.Viewport()
	width, height := vp.Size()

	shape := Shape{
		ID:     d.ID,
		Kind:   d.Kind(),
		Style:  d.Style.Clone(),
		Locked: d.Locked,
	}

	switch v := d.Shape.(type) {
	case drawing.HorizontalLine:
		y := vp.YScale(v.Price)
		shape.Points = []core.Pixel{{X: 0, Y: y}, {X: width, Y: y}}
	case drawing.VerticalLine:
		x := vp.TimeToX(v.Time)
		shape.Points = []core.Pixel{{X: x, Y: 0}, {X: x, Y: height}}
	default:
		shape.Points = lo.Map(drawing.Points(d.Shape), func(p core.Point, _ int) core.Pixel {
			return drawing.ToPixel(vp, p)
		})
	}

	switch v := d.Shape.(type) {
	case drawing.TextNote:
		shape.Text = v.Text
	case drawing.Callout:
		shape.Text = v.Text
	case drawing.Fibonacci:
		shape.Levels = lo.Map(v.Levels, func(level float64, _ int) Level {
			price := v.LevelPrice(level)
			return Level{Level: level, Price: price, Y: vp.YScale(price)}
		})
	case drawing.Box:
		if v.Variant == drawing.KindGannBox {
			shape.Levels = lo.Map(drawing.GannLevels, func(level float64, _ int) Level {
				price := v.Start.Price + (v.End.Price-v.Start.Price)*level
				return Level{Level: level, Price: price, Y: vp.YScale(price)}
			})
		}
	}

	if !d.Locked {
		shape.Handles = lo.Map(drawing.Handles(d.Shape), func(h drawing.Handle, _ int) Handle {
			return Handle{Name: h.ID.Name, Index: h.ID.Index, Pixel: drawing.ToPixel(vp, h.Point)}
		})
	}
	return shape
}
