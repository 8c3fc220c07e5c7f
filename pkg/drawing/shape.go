package drawing

import "github.com/raykavin/chartcore/pkg/core"

// Shape is the geometry of a drawing. The set of implementations is closed:
// HorizontalLine, VerticalLine, TextNote, Line, Box, Fibonacci, Channel,
// Position, Path, Brush and Callout.
type Shape interface {
	Kind() Kind
	shape()
}

// HorizontalLine spans the whole chart at one price
type HorizontalLine struct {
	Price float64 `json:"price"`
}

// VerticalLine spans the whole chart at one time
type VerticalLine struct {
	Time int64 `json:"time"`
}

// TextNote is a free text label anchored at a point
type TextNote struct {
	At   core.Point `json:"point"`
	Text string     `json:"text"`
}

// Line is a two-point line: trend line, ray, horizontal ray or arrow
type Line struct {
	Variant Kind       `json:"-"`
	Start   core.Point `json:"start"`
	End     core.Point `json:"end"`
}

// Box is a two-corner shape: rectangle, price/date ranges or Gann box
type Box struct {
	Variant Kind       `json:"-"`
	Start   core.Point `json:"start"`
	End     core.Point `json:"end"`
}

// Fibonacci is a retracement between two points with ratio levels
type Fibonacci struct {
	Start  core.Point `json:"start"`
	End    core.Point `json:"end"`
	Levels []float64  `json:"levels"`
}

// Channel is a parallel channel: a baseline from Start to End and a parallel
// line of equal length starting at P2. P2 always shares Start's time.
type Channel struct {
	Start core.Point `json:"start"`
	End   core.Point `json:"end"`
	P2    core.Point `json:"p2"`
}

// Position is a long or short position with profit and stop targets
type Position struct {
	Short  bool       `json:"short"`
	Entry  core.Point `json:"entry"`
	Profit core.Point `json:"profit"`
	Stop   core.Point `json:"stop"`
}

// Path is a polyline of explicit vertices
type Path struct {
	Points []core.Point `json:"points"`
}

// Brush is a simplified freehand stroke
type Brush struct {
	Points []core.Point `json:"points"`
}

// Callout is a text label connected to an anchor point
type Callout struct {
	Anchor core.Point `json:"anchor"`
	Label  core.Point `json:"label"`
	Text   string     `json:"text"`
}

// DefaultFibLevels are the retracement ratios of a new Fibonacci drawing
var DefaultFibLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// GannLevels are the ratios of the inner grid of a Gann box
var GannLevels = []float64{0.25, 0.382, 0.5, 0.618, 0.75}

func (HorizontalLine) Kind() Kind { return KindHorizontalLine }
func (VerticalLine) Kind() Kind   { return KindVerticalLine }
func (TextNote) Kind() Kind       { return KindTextNote }
func (l Line) Kind() Kind         { return l.Variant }
func (b Box) Kind() Kind          { return b.Variant }
func (Fibonacci) Kind() Kind      { return KindFibRetracement }
func (Channel) Kind() Kind        { return KindParallelChannel }
func (Path) Kind() Kind           { return KindPath }
func (Brush) Kind() Kind          { return KindBrush }
func (Callout) Kind() Kind        { return KindCallout }

func (p Position) Kind() Kind {
	if p.Short {
		return KindShortPosition
	}
	return KindLongPosition
}

func (HorizontalLine) shape() {}
func (VerticalLine) shape()   {}
func (TextNote) shape()       {}
func (Line) shape()           {}
func (Box) shape()            {}
func (Fibonacci) shape()      {}
func (Channel) shape()        {}
func (Position) shape()       {}
func (Path) shape()           {}
func (Brush) shape()          {}
func (Callout) shape()        {}

// newShape returns the zero geometry for kind, used when decoding
func newShape(kind Kind) (Shape, bool) {
	switch {
	case kind == KindHorizontalLine:
		return &HorizontalLine{}, true
	case kind == KindVerticalLine:
		return &VerticalLine{}, true
	case kind == KindTextNote:
		return &TextNote{}, true
	case kind.IsLine():
		return &Line{Variant: kind}, true
	case kind.IsBox():
		return &Box{Variant: kind}, true
	case kind == KindFibRetracement:
		return &Fibonacci{}, true
	case kind == KindParallelChannel:
		return &Channel{}, true
	case kind == KindLongPosition || kind == KindShortPosition:
		return &Position{Short: kind == KindShortPosition}, true
	case kind == KindPath:
		return &Path{}, true
	case kind == KindBrush:
		return &Brush{}, true
	case kind == KindCallout:
		return &Callout{}, true
	}
	return nil, false
}

// deref turns the pointer produced by newShape back into a value shape
func deref(s Shape) Shape {
	switch v := s.(type) {
	case *HorizontalLine:
		return *v
	case *VerticalLine:
		return *v
	case *TextNote:
		return *v
	case *Line:
		return *v
	case *Box:
		return *v
	case *Fibonacci:
		return *v
	case *Channel:
		return *v
	case *Position:
		return *v
	case *Path:
		return *v
	case *Brush:
		return *v
	case *Callout:
		return *v
	}
	return s
}
