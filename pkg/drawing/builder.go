package drawing

import (
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
)

// Outcome tells what a creation step produced
type Outcome int

const (
	Pending Outcome = iota
	Completed
	Discarded
)

// Result is returned by every builder step
type Result struct {
	Outcome Outcome
	Drawing Drawing
	// EditText asks the caller to open inline text editing for the drawing
	EditText bool
}

// CurrentDrawing is a drawing under construction
type CurrentDrawing struct {
	Drawing Drawing
	Step    int
}

// Builder drives the creation protocol of one tool
type Builder struct {
	tool     Kind
	style    Style
	settings config.DrawingSettings
	surface  Surface
	newID    func() string

	current *CurrentDrawing
	pressed bool
	moved   bool
	strokes []core.Pixel
}

// NewBuilder creates a builder for the tool. newID is called once per drawing.
func NewBuilder(tool Kind, style Style, settings config.DrawingSettings, surface Surface, newID func() string) *Builder {
	return &Builder{
		tool:     tool,
		style:    style,
		settings: settings,
		surface:  surface,
		newID:    newID,
	}
}

// Tool returns the active tool
func (b *Builder) Tool() Kind { return b.tool }

// Current returns the drawing under construction, if any
func (b *Builder) Current() (CurrentDrawing, bool) {
	if b.current == nil {
		return CurrentDrawing{}, false
	}
	return CurrentDrawing{Drawing: b.current.Drawing.Copy(), Step: b.current.Step}, true
}

// InProgress reports whether a drawing has been started
func (b *Builder) InProgress() bool { return b.current != nil }

// Cancel discards the drawing under construction
func (b *Builder) Cancel() {
	b.reset()
}

func (b *Builder) reset() {
	b.current = nil
	b.pressed = false
	b.moved = false
	b.strokes = nil
}

func (b *Builder) start(shape Shape) {
	b.current = &CurrentDrawing{Drawing: New(b.newID(), shape, b.style), Step: 1}
	b.pressed = true
	b.moved = false
}

func (b *Builder) complete(editText bool) Result {
	d := b.current.Drawing
	b.reset()
	return Result{Outcome: Completed, Drawing: d, EditText: editText}
}

func (b *Builder) discard() Result {
	b.reset()
	return Result{Outcome: Discarded}
}

// Down handles a pointer press at the captured point pt
func (b *Builder) Down(pt core.Point, px core.Pixel) Result {
	switch b.tool.Protocol() {
	case ProtocolInstant:
		return b.instant(pt)
	case ProtocolPosition:
		return b.position(pt)
	case ProtocolTwoPoint:
		return b.twoPointDown(pt)
	case ProtocolThreePoint:
		return b.channelDown(pt)
	case ProtocolPath:
		return b.pathDown(pt)
	case ProtocolBrush:
		b.start(Brush{Points: []core.Point{Raw(b.surface, px)}})
		b.strokes = []core.Pixel{px}
		return Result{Outcome: Pending}
	case ProtocolAnchoredLabel:
		return b.calloutDown(pt)
	}
	return Result{Outcome: Pending}
}

// Move tracks the cursor while a drawing is in progress
func (b *Builder) Move(pt core.Point, px core.Pixel) {
	if b.current == nil {
		return
	}
	c := b.current

	switch s := c.Drawing.Shape.(type) {
	case Line:
		s.End = pt
		c.Drawing.Shape = s
	case Box:
		s.End = pt
		c.Drawing.Shape = s
	case Fibonacci:
		s.End = pt
		c.Drawing.Shape = s
	case Channel:
		if c.Step == 1 {
			s.End = pt
			s.P2 = s.Start
		} else {
			s.P2 = ProjectP2(s.Start, s.End, pt)
		}
		c.Drawing.Shape = s
	case Path:
		points := append([]core.Point(nil), s.Points...)
		points[len(points)-1] = pt
		s.Points = points
		c.Drawing.Shape = s
	case Brush:
		if !b.pressed {
			return
		}
		last := b.strokes[len(b.strokes)-1]
		if last.Distance(px) <= b.settings.BrushMinDistance {
			return
		}
		b.strokes = append(b.strokes, px)
		s.Points = append(append([]core.Point(nil), s.Points...), Raw(b.surface, px))
		c.Drawing.Shape = s
	case Callout:
		s.Label = pt
		c.Drawing.Shape = s
	}

	if b.pressed {
		b.moved = true
	}
}

// Up handles a pointer release
func (b *Builder) Up(pt core.Point, px core.Pixel) Result {
	if b.current == nil {
		return Result{Outcome: Pending}
	}
	wasPressed := b.pressed
	b.pressed = false

	switch s := b.current.Drawing.Shape.(type) {
	case Line, Box, Fibonacci:
		if !wasPressed || b.current.Step != 1 {
			break
		}
		if pt != firstPoint(s) {
			b.Move(pt, px)
			return b.complete(false)
		}
		// a click without a drag waits for the second click
		b.current.Step = 2
	case Channel:
		if wasPressed && b.current.Step == 1 && b.moved && pt != s.Start {
			s.End = pt
			s.P2 = s.Start
			b.current.Drawing.Shape = s
			b.current.Step = 2
		}
	case Brush:
		return b.finishBrush(s)
	case Callout:
		if wasPressed && b.current.Step == 1 && pt != s.Anchor {
			s.Label = pt
			b.current.Drawing.Shape = s
			return b.complete(true)
		}
	}
	return Result{Outcome: Pending}
}

// DoubleClick finalizes a path
func (b *Builder) DoubleClick() Result {
	if b.current == nil {
		return Result{Outcome: Pending}
	}
	path, ok := b.current.Drawing.Shape.(Path)
	if !ok {
		return Result{Outcome: Pending}
	}

	// drop the ghost vertex and the duplicates left by the double click
	points := path.Points[:len(path.Points)-1]
	for len(points) > 1 && points[len(points)-1] == points[len(points)-2] {
		points = points[:len(points)-1]
	}
	if len(points) < 2 {
		return b.discard()
	}
	path.Points = append([]core.Point(nil), points...)
	b.current.Drawing.Shape = path
	return b.complete(false)
}

func (b *Builder) instant(pt core.Point) Result {
	var shape Shape
	switch b.tool {
	case KindHorizontalLine:
		shape = HorizontalLine{Price: pt.Price}
	case KindVerticalLine:
		shape = VerticalLine{Time: pt.Time}
	default:
		shape = TextNote{At: pt}
	}
	b.start(shape)
	return b.complete(b.tool == KindTextNote)
}

func (b *Builder) position(pt core.Point) Result {
	short := b.tool == KindShortPosition
	offset := pt.Price * b.settings.PositionPercent
	end := pt.Time + int64(b.settings.PositionBars)*b.surface.CandleInterval()

	profit, stop := pt.Price+offset, pt.Price-offset
	if short {
		profit, stop = stop, profit
	}
	b.start(Position{
		Short:  short,
		Entry:  pt,
		Profit: core.Point{Time: end, Price: profit},
		Stop:   core.Point{Time: end, Price: stop},
	})
	return b.complete(false)
}

func (b *Builder) twoPointDown(pt core.Point) Result {
	if b.current != nil {
		b.Move(pt, core.Pixel{})
		return b.complete(false)
	}

	switch {
	case b.tool == KindFibRetracement:
		b.start(Fibonacci{Start: pt, End: pt, Levels: append([]float64(nil), DefaultFibLevels...)})
	case b.tool.IsBox():
		b.start(Box{Variant: b.tool, Start: pt, End: pt})
	default:
		b.start(Line{Variant: b.tool, Start: pt, End: pt})
	}
	return Result{Outcome: Pending}
}

func (b *Builder) channelDown(pt core.Point) Result {
	if b.current == nil {
		b.start(Channel{Start: pt, End: pt, P2: pt})
		return Result{Outcome: Pending}
	}

	s := b.current.Drawing.Shape.(Channel)
	if b.current.Step == 1 {
		s.End = pt
		s.P2 = s.Start
		b.current.Drawing.Shape = s
		b.current.Step = 2
		b.pressed = true
		b.moved = false
		return Result{Outcome: Pending}
	}
	s.P2 = ProjectP2(s.Start, s.End, pt)
	b.current.Drawing.Shape = s
	return b.complete(false)
}

func (b *Builder) pathDown(pt core.Point) Result {
	if b.current == nil {
		b.start(Path{Points: []core.Point{pt, pt}})
		return Result{Outcome: Pending}
	}

	s := b.current.Drawing.Shape.(Path)
	points := append([]core.Point(nil), s.Points...)
	points[len(points)-1] = pt
	s.Points = append(points, pt)
	b.current.Drawing.Shape = s
	b.current.Step++
	return Result{Outcome: Pending}
}

func (b *Builder) calloutDown(pt core.Point) Result {
	if b.current == nil {
		b.start(Callout{Anchor: pt, Label: pt})
		return Result{Outcome: Pending}
	}
	s := b.current.Drawing.Shape.(Callout)
	s.Label = pt
	b.current.Drawing.Shape = s
	return b.complete(true)
}

func (b *Builder) finishBrush(s Brush) Result {
	simplified := Simplify(b.strokes, b.settings.BrushEpsilon)
	if len(simplified) < 2 {
		return b.discard()
	}
	points := make([]core.Point, len(simplified))
	for i, px := range simplified {
		points[i] = Raw(b.surface, px)
	}
	s.Points = points
	b.current.Drawing.Shape = s
	return b.complete(false)
}

func firstPoint(s Shape) core.Point {
	switch v := s.(type) {
	case Line:
		return v.Start
	case Box:
		return v.Start
	case Fibonacci:
		return v.Start
	}
	return core.Point{}
}
