package interaction

import (
	"math"

	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/drawing"
)

func (m *Machine) pointerDown(e Event) {
	px := e.Pixel()
	m.pointers[e.PointerID] = px

	if len(m.pointers) == 2 && m.startPinch() {
		return
	}

	switch m.state.(type) {
	case None:
	case Drawing:
		m.drawingDown(e)
		return
	default:
		// one gesture at a time
		return
	}

	if m.tool != "" && e.area() == AreaChart {
		m.drawingDown(e)
		return
	}

	if e.area() != AreaChart {
		m.capture(e.PointerID)
		m.setState(Scaling{PointerID: e.PointerID, Axis: e.area(), Origin: px, Before: m.session.Navigation()})
		return
	}

	if m.editDown(e) {
		return
	}

	m.capture(e.PointerID)
	m.setState(Panning{
		PointerID:  e.PointerID,
		Origin:     px,
		Before:     m.session.Navigation(),
		ShiftPrice: !m.session.AutoScale(),
	})
	if e.pointerType() == Touch {
		m.press = &longPress{pointerID: e.PointerID, origin: px, deadline: e.At + m.settings.LongPress.Milliseconds()}
	}
}

// startPinch switches to Pinching when the second pointer lands during an
// idle or panning state.
func (m *Machine) startPinch() bool {
	before := m.session.Navigation()
	switch s := m.state.(type) {
	case None:
	case Panning:
		before = s.Before
	default:
		return false
	}

	ids := lo.Keys(m.pointers)
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	for _, id := range ids {
		m.capture(id)
	}
	m.press = nil
	m.setState(Pinching{
		Pointers: [2]int{ids[0], ids[1]},
		Pinch:    m.session.Viewport().BeginPinch(m.pointers[ids[0]], m.pointers[ids[1]]),
		Before:   before,
	})
	return true
}

// drawingDown feeds a press to the builder, deferring touch input to lift
func (m *Machine) drawingDown(e Event) {
	if m.builder == nil {
		return
	}
	px := e.Pixel()
	m.capture(e.PointerID)

	if e.pointerType() == Touch && m.tool != drawing.KindBrush {
		m.crosshair, m.showCrosshair = px, true
		m.setState(Aiming{PointerID: e.PointerID, Tool: m.tool, Position: px})
		return
	}

	m.handleResult(m.builder.Down(m.snap(px), px))
}

// editDown starts a move or resize when the press hits a drawing, or a line
// drag when it hits the price line of a value-only alert.
func (m *Machine) editDown(e Event) bool {
	px := e.Pixel()
	hit, ok := m.session.HitTest(px)
	if !ok {
		if m.lineDown(e) {
			return true
		}
		m.session.Select("")
		return false
	}

	m.session.Select(hit.ID)
	d, _ := m.session.Drawing(hit.ID)
	if d.Locked {
		return false
	}

	m.capture(e.PointerID)
	origin := m.snap(px)
	if hit.Part == drawing.PartHandle {
		m.setState(Resizing{PointerID: e.PointerID, Handle: hit.Handle, Origin: origin, Initial: d, Current: d.Copy()})
	} else {
		m.setState(Moving{PointerID: e.PointerID, Origin: origin, Initial: d, Current: d.Copy()})
	}
	return true
}

func (m *Machine) lineDown(e Event) bool {
	vp := m.session.Viewport()
	width := m.session.Tolerance().HitboxWidth
	for _, a := range m.session.Alerts() {
		if !a.ValueOnly() || a.Value == nil {
			continue
		}
		if math.Abs(vp.YScale(*a.Value)-e.Y) > width {
			continue
		}
		m.capture(e.PointerID)
		m.setState(DraggingLine{PointerID: e.PointerID, AlertID: a.ID, Price: *a.Value})
		return true
	}
	return false
}

func (m *Machine) pointerMove(e Event) {
	px := e.Pixel()
	if _, ok := m.pointers[e.PointerID]; ok {
		m.pointers[e.PointerID] = px
	}

	if m.press != nil && m.press.pointerID == e.PointerID &&
		m.press.origin.Distance(px) > m.settings.LongPressTolerance {
		m.press = nil
	}

	vp := m.session.Viewport()
	switch s := m.state.(type) {
	case None:
		if e.pointerType() == Mouse && e.area() == AreaChart {
			m.crosshair, m.showCrosshair = px, true
		}
	case Panning:
		if s.PointerID != e.PointerID {
			return
		}
		if e.pointerType() == Touch && s.Origin.Distance(px) > m.settings.LongPressTolerance {
			m.showCrosshair = false
		}
		vp.Pan(s.Before.View, s.Before.PriceRange, px.X-s.Origin.X, px.Y-s.Origin.Y, s.ShiftPrice)
		m.session.Autoscale()
	case Scaling:
		if s.PointerID != e.PointerID {
			return
		}
		if s.Axis == AreaPriceAxis {
			m.session.DisableAutoScale()
			vp.ScaleY(s.Before.PriceRange, px.Y-s.Origin.Y)
			return
		}
		vp.ScaleX(s.Before.View, s.Origin.X, px.X-s.Origin.X)
		m.session.Autoscale()
	case Pinching:
		a, okA := m.pointers[s.Pointers[0]]
		b, okB := m.pointers[s.Pointers[1]]
		if !okA || !okB {
			return
		}
		vp.PinchTo(s.Pinch, a, b, !m.session.AutoScale())
		m.session.Autoscale()
	case Drawing:
		if m.builder != nil {
			m.builder.Move(m.snap(px), px)
		}
		m.crosshair, m.showCrosshair = px, true
	case Aiming:
		if s.PointerID != e.PointerID {
			return
		}
		s.Position = px
		m.state = s
		m.crosshair = px
	case Moving:
		if s.PointerID != e.PointerID {
			return
		}
		dt, dp := m.snap(px).Sub(s.Origin)
		s.Current.Shape = drawing.Translate(s.Initial.Shape, dt, dp)
		m.state = s
	case Resizing:
		if s.PointerID != e.PointerID {
			return
		}
		dt, dp := m.snap(px).Sub(s.Origin)
		if shape, ok := drawing.MoveHandle(s.Initial.Shape, s.Handle, dt, dp); ok {
			s.Current.Shape = shape
			m.state = s
		}
	case Crosshair:
		if s.PointerID == e.PointerID {
			m.crosshair = px
		}
	case DraggingLine:
		if s.PointerID != e.PointerID {
			return
		}
		s.Price = vp.YToPrice(px.Y)
		m.state = s
	}
}

func (m *Machine) pointerUp(e Event) {
	px := e.Pixel()
	delete(m.pointers, e.PointerID)
	m.release(e.PointerID)
	if m.press != nil && m.press.pointerID == e.PointerID {
		m.press = nil
	}

	switch s := m.state.(type) {
	case Panning:
		if s.PointerID != e.PointerID {
			return
		}
		// a touch tap over a visible crosshair moves it
		if e.pointerType() == Touch && m.showCrosshair && s.Origin.Distance(px) <= m.settings.LongPressTolerance {
			m.restoreNavigation(s.Before)
			m.crosshair = px
			m.reset()
			return
		}
		m.session.CommitNavigation(s.Before)
		m.reset()
	case Scaling:
		if s.PointerID == e.PointerID {
			m.session.CommitNavigation(s.Before)
			m.reset()
		}
	case Pinching:
		m.endPinch(s)
	case Drawing:
		if m.builder != nil {
			m.handleResult(m.builder.Up(m.snap(px), px))
		}
	case Aiming:
		if s.PointerID != e.PointerID || m.builder == nil {
			return
		}
		pt := m.snap(s.Position)
		res := m.builder.Down(pt, s.Position)
		if res.Outcome == drawing.Pending {
			res = m.builder.Up(pt, s.Position)
		}
		m.handleResult(res)
	case Moving:
		if s.PointerID == e.PointerID {
			m.finishEdit(s.Initial, s.Current)
		}
	case Resizing:
		if s.PointerID == e.PointerID {
			m.finishEdit(s.Initial, s.Current)
		}
	case Crosshair:
		if s.PointerID == e.PointerID {
			m.reset()
		}
	case DraggingLine:
		if s.PointerID == e.PointerID {
			m.session.MoveAlertValue(s.AlertID, s.Price)
			m.reset()
		}
	}
}

func (m *Machine) endPinch(s Pinching) {
	if len(m.pointers) >= 2 {
		return
	}
	m.session.CommitNavigation(s.Before)
	m.reset()
}

// finishEdit stores the result of a move or resize. The commit happens
// before the drawing is written, so undo restores the initial geometry.
func (m *Machine) finishEdit(initial, current drawing.Drawing) {
	if !drawing.Equal(initial, current) {
		m.session.UpdateDrawing(current)
	}
	m.reset()
}

// pointerCancel aborts edits and keeps navigation results
func (m *Machine) pointerCancel(e Event) {
	delete(m.pointers, e.PointerID)
	m.release(e.PointerID)

	switch s := m.state.(type) {
	case Pinching:
		m.endPinch(s)
	case Drawing, Aiming:
		m.cancelDrawing()
		m.reset()
	default:
		m.endGesture()
	}
}

// pointerLeave resets every gesture but drawing and pinching
func (m *Machine) pointerLeave(e Event) {
	if e.pointerType() == Mouse {
		m.showCrosshair = false
	}

	switch m.state.(type) {
	case Drawing, Pinching:
		return
	}
	delete(m.pointers, e.PointerID)
	m.endGesture()
}

// endGesture drops the active gesture. Navigation already applied is
// committed, edits in flight are discarded.
func (m *Machine) endGesture() {
	switch s := m.state.(type) {
	case Panning:
		m.session.CommitNavigation(s.Before)
	case Scaling:
		m.session.CommitNavigation(s.Before)
	case Aiming:
		m.setState(Drawing{Tool: s.Tool})
		m.press = nil
		m.releaseAll()
		return
	}
	m.reset()
}

func (m *Machine) doubleClick(e Event) {
	if m.builder != nil && m.builder.InProgress() {
		m.handleResult(m.builder.DoubleClick())
		return
	}
	if _, ok := m.state.(None); !ok {
		return
	}

	hit, ok := m.session.HitTest(e.Pixel())
	if !ok {
		return
	}
	d, _ := m.session.Drawing(hit.ID)
	switch d.Shape.(type) {
	case drawing.TextNote, drawing.Callout:
		if d.Locked {
			return
		}
		m.session.Select(d.ID)
		m.editing = d.ID
		m.hooks.OnTextEdit(d.ID)
	}
}

func (m *Machine) wheel(e Event) {
	switch m.state.(type) {
	case Pinching, Crosshair, Moving, Resizing, DraggingLine:
		return
	}

	vp := m.session.Viewport()
	if e.area() == AreaPriceAxis {
		m.session.DisableAutoScale()
		vp.ZoomY(e.DeltaY)
		return
	}
	vp.ZoomX(e.DeltaY)
	m.session.Autoscale()
}

func (m *Machine) keyDown(e Event) {
	if m.modalOpen || m.editing != "" {
		return
	}

	switch {
	case e.Key == KeyEscape:
		m.cancelDrawing()
		m.session.Select("")
		m.showCrosshair = false
		if _, ok := m.state.(Pinching); !ok {
			m.endGesture()
		}
	case e.Key == KeyDelete || e.Key == KeyBackspace:
		m.session.DeleteSelected()
	case e.command() && (e.Key == "z" || e.Key == "Z"):
		if e.Shift {
			m.session.Redo()
		} else {
			m.session.Undo()
		}
	case e.command() && (e.Key == "y" || e.Key == "Y"):
		m.session.Redo()
	case e.Alt && (e.Key == "r" || e.Key == "R"):
		m.session.ResetView()
	}
}
