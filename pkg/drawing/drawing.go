// Package drawing implements the geometry of chart drawings: creation
// protocols, hit-testing, mutation and point capture.
package drawing

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/raykavin/chartcore/pkg/core"
)

// Style holds the visual attributes of a drawing
type Style struct {
	Color    string            `json:"color"`
	Width    float64           `json:"width"`
	Dash     string            `json:"dash,omitempty"`
	Fill     string            `json:"fill,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

// DefaultStyle is applied to drawings created without an explicit style
var DefaultStyle = Style{Color: "#2962FF", Width: 2}

// Clone returns a deep copy of the style
func (s Style) Clone() Style {
	if s.Settings != nil {
		settings := make(map[string]string, len(s.Settings))
		for k, v := range s.Settings {
			settings[k] = v
		}
		s.Settings = settings
	}
	return s
}

// Drawing is a user-placed annotation on the chart
type Drawing struct {
	ID      string
	Style   Style
	Visible bool
	Locked  bool
	Shape   Shape
}

// New creates a visible, unlocked drawing
func New(id string, shape Shape, style Style) Drawing {
	return Drawing{ID: id, Style: style.Clone(), Visible: true, Shape: shape}
}

// Kind returns the tool kind of the drawing
func (d Drawing) Kind() Kind {
	if d.Shape == nil {
		return ""
	}
	return d.Shape.Kind()
}

// Copy returns a deep copy sharing no slices or maps with d
func (d Drawing) Copy() Drawing {
	d.Style = d.Style.Clone()
	d.Shape = cloneShape(d.Shape)
	return d
}

// Equal reports whether two drawings hold the same data
func Equal(a, b Drawing) bool { return reflect.DeepEqual(a, b) }

// Anchor returns the first defining point of the drawing, used to evaluate
// alerts at the drawing's own time.
func (d Drawing) Anchor() core.Point {
	switch s := d.Shape.(type) {
	case HorizontalLine:
		return core.Point{Price: s.Price}
	case VerticalLine:
		return core.Point{Time: s.Time}
	case TextNote:
		return s.At
	case Line:
		return s.Start
	case Box:
		return s.Start
	case Fibonacci:
		return s.Start
	case Channel:
		return s.Start
	case Position:
		return s.Entry
	case Path:
		if len(s.Points) > 0 {
			return s.Points[0]
		}
	case Brush:
		if len(s.Points) > 0 {
			return s.Points[0]
		}
	case Callout:
		return s.Anchor
	}
	return core.Point{}
}

type wireDrawing struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"kind"`
	Style    Style           `json:"style"`
	Visible  *bool           `json:"visible,omitempty"`
	Locked   bool            `json:"locked,omitempty"`
	Geometry json.RawMessage `json:"geometry"`
}

// MarshalJSON encodes the drawing with its kind next to the geometry
func (d Drawing) MarshalJSON() ([]byte, error) {
	if d.Shape == nil {
		return nil, fmt.Errorf("drawing %s: %w", d.ID, core.ErrInvalidGeometry)
	}
	geometry, err := json.Marshal(d.Shape)
	if err != nil {
		return nil, err
	}
	visible := d.Visible
	return json.Marshal(wireDrawing{
		ID:       d.ID,
		Kind:     d.Kind(),
		Style:    d.Style,
		Visible:  &visible,
		Locked:   d.Locked,
		Geometry: geometry,
	})
}

// UnmarshalJSON decodes a drawing, choosing the geometry type by kind.
// A missing visible flag defaults to true.
func (d *Drawing) UnmarshalJSON(data []byte) error {
	var wire wireDrawing
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	shape, ok := newShape(wire.Kind)
	if !ok {
		return core.NewError(core.CodeInvalidGeometry, fmt.Sprintf("unknown drawing kind %q", wire.Kind), nil)
	}
	if len(wire.Geometry) > 0 {
		if err := json.Unmarshal(wire.Geometry, shape); err != nil {
			return fmt.Errorf("drawing %s geometry: %w", wire.ID, err)
		}
	}

	d.ID = wire.ID
	d.Style = wire.Style
	d.Visible = wire.Visible == nil || *wire.Visible
	d.Locked = wire.Locked
	d.Shape = deref(shape)
	return nil
}

func cloneShape(s Shape) Shape {
	switch v := s.(type) {
	case Fibonacci:
		v.Levels = append([]float64(nil), v.Levels...)
		return v
	case Path:
		v.Points = append([]core.Point(nil), v.Points...)
		return v
	case Brush:
		v.Points = append([]core.Point(nil), v.Points...)
		return v
	}
	return s
}
