// Package interaction turns pointer, wheel and keyboard input into chart
// navigation and drawing edits. All input is serialized through Dispatch;
// the machine never blocks and owns no goroutines.
package interaction

import (
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/logger"
)

// Capturer routes every move and up event of a pointer to the chart while
// a gesture runs. Each Capture is paired with exactly one Release.
type Capturer interface {
	Capture(pointerID int)
	Release(pointerID int)
}

// Hooks receives the requests the machine cannot fulfil itself
type Hooks interface {
	OnTextEdit(drawingID string)
}

type nopCapturer struct{}

func (nopCapturer) Capture(int) {}
func (nopCapturer) Release(int) {}

type nopHooks struct{}

func (nopHooks) OnTextEdit(string) {}

type longPress struct {
	pointerID int
	origin    core.Pixel
	deadline  int64
}

// Machine is the interaction state machine of one chart session
type Machine struct {
	session  *chart.Session
	settings config.InteractionSettings
	log      logger.Logger
	capturer Capturer
	hooks    Hooks

	state    State
	tool     drawing.Kind
	style    drawing.Style
	builder  *drawing.Builder
	pointers map[int]core.Pixel
	captured map[int]bool
	press    *longPress

	crosshair     core.Pixel
	showCrosshair bool
	modalOpen     bool
	editing       string
}

// Option configures a Machine
type Option func(*Machine)

// WithCapturer sets the pointer capture service
func WithCapturer(c Capturer) Option {
	return func(m *Machine) {
		m.capturer = c
	}
}

// WithHooks sets the text edit callbacks
func WithHooks(h Hooks) Option {
	return func(m *Machine) {
		m.hooks = h
	}
}

// WithStyle sets the style given to new drawings
func WithStyle(style drawing.Style) Option {
	return func(m *Machine) {
		m.style = style
	}
}

// New creates a machine driving session
func New(session *chart.Session, options ...Option) *Machine {
	m := &Machine{
		session:  session,
		settings: session.Settings().Interaction,
		log:      session.Logger(),
		capturer: nopCapturer{},
		hooks:    nopHooks{},
		state:    None{},
		style:    drawing.DefaultStyle,
		pointers: make(map[int]core.Pixel),
		captured: make(map[int]bool),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// Session returns the driven session
func (m *Machine) Session() *chart.Session { return m.session }

// State returns the active gesture
func (m *Machine) State() State { return m.state }

// Tool returns the selected drawing tool, empty when none
func (m *Machine) Tool() drawing.Kind { return m.tool }

// Crosshair returns the crosshair position when it is visible
func (m *Machine) Crosshair() (core.Pixel, bool) { return m.crosshair, m.showCrosshair }

// Editing returns the drawing whose text is being edited
func (m *Machine) Editing() (string, bool) { return m.editing, m.editing != "" }

// CurrentDrawing returns the drawing under construction
func (m *Machine) CurrentDrawing() (drawing.CurrentDrawing, bool) {
	if m.builder == nil {
		return drawing.CurrentDrawing{}, false
	}
	return m.builder.Current()
}

// Override returns the live geometry of a drawing being moved or resized
func (m *Machine) Override() *drawing.Drawing {
	switch s := m.state.(type) {
	case Moving:
		d := s.Current.Copy()
		return &d
	case Resizing:
		d := s.Current.Copy()
		return &d
	}
	return nil
}

// DraggedAlert returns the alert whose price line is being dragged
func (m *Machine) DraggedAlert() (string, float64, bool) {
	if s, ok := m.state.(DraggingLine); ok {
		return s.AlertID, s.Price, true
	}
	return "", 0, false
}

// ActiveAlerts resolves the session alerts against the live gesture state
func (m *Machine) ActiveAlerts() []chart.ResolvedAlert {
	alerts := m.session.ActiveAlerts(m.Override())
	if id, price, ok := m.DraggedAlert(); ok {
		for i := range alerts {
			if alerts[i].Alert.ID == id {
				alerts[i].Price = price
			}
		}
	}
	return alerts
}

// SetTool selects a drawing tool. An empty kind deselects the tool and
// discards any drawing under construction.
func (m *Machine) SetTool(tool drawing.Kind) error {
	if tool != "" && !tool.Valid() {
		return core.NewError(core.CodeValidation, "unknown drawing tool "+string(tool), nil)
	}
	m.cancelDrawing()
	m.tool = tool
	if tool != "" {
		m.builder = drawing.NewBuilder(tool, m.style, m.session.Settings().Drawing, m.session.Viewport(), m.session.NewID)
	}
	return nil
}

// SetModalOpen disables keyboard shortcuts while a modal is shown
func (m *Machine) SetModalOpen(open bool) { m.modalOpen = open }

// EndTextEdit closes the inline text editor, storing text when it changed
func (m *Machine) EndTextEdit(text string) {
	if m.editing == "" {
		return
	}
	id := m.editing
	m.editing = ""

	d, ok := m.session.Drawing(id)
	if !ok {
		return
	}
	switch s := d.Shape.(type) {
	case drawing.TextNote:
		if s.Text == text {
			return
		}
	case drawing.Callout:
		if s.Text == text {
			return
		}
	default:
		return
	}
	m.session.SetText(id, text)
}

// Close ends the active gesture and releases every captured pointer
func (m *Machine) Close() {
	m.cancelDrawing()
	m.reset()
	m.pointers = make(map[int]core.Pixel)
}

// Dispatch feeds one event to the machine
func (m *Machine) Dispatch(e Event) {
	m.checkLongPress(e.At)

	switch e.Type {
	case PointerDown:
		m.pointerDown(e)
	case PointerMove:
		m.pointerMove(e)
	case PointerUp:
		m.pointerUp(e)
	case PointerCancel:
		m.pointerCancel(e)
	case PointerLeave:
		m.pointerLeave(e)
	case DoubleClick:
		m.doubleClick(e)
	case Wheel:
		m.wheel(e)
	case KeyDown:
		m.keyDown(e)
	case SelectTool:
		if err := m.SetTool(e.Tool); err != nil {
			m.log.WithError(err).Warn("tool not selected")
		}
	case Tick:
	default:
		m.log.Warnf("unknown event type %q", e.Type)
	}
}

// Run dispatches events in order
func (m *Machine) Run(events []Event) {
	for _, e := range events {
		m.Dispatch(e)
	}
}

func (m *Machine) setState(s State) {
	if m.state.Name() != s.Name() {
		m.log.WithField("from", m.state.Name()).WithField("to", s.Name()).Trace("interaction state")
	}
	m.state = s
}

func (m *Machine) capture(pointerID int) {
	if m.captured[pointerID] {
		return
	}
	m.captured[pointerID] = true
	m.capturer.Capture(pointerID)
}

func (m *Machine) release(pointerID int) {
	if !m.captured[pointerID] {
		return
	}
	delete(m.captured, pointerID)
	m.capturer.Release(pointerID)
}

func (m *Machine) releaseAll() {
	for id := range m.captured {
		m.release(id)
	}
}

// reset returns to None and releases every capture
func (m *Machine) reset() {
	m.press = nil
	m.releaseAll()
	m.setState(None{})
}

func (m *Machine) cancelDrawing() {
	if m.builder != nil {
		m.builder.Cancel()
	}
	m.builder = nil
	m.tool = ""
	if _, ok := m.state.(Drawing); ok {
		m.setState(None{})
	}
	if _, ok := m.state.(Aiming); ok {
		m.setState(None{})
	}
}

func (m *Machine) snap(px core.Pixel) core.Point {
	return m.session.Snapper().Snap(m.session.Viewport(), px)
}

func (m *Machine) checkLongPress(now int64) {
	if m.press == nil || now < m.press.deadline {
		return
	}
	press := m.press
	m.press = nil

	pan, ok := m.state.(Panning)
	if !ok || pan.PointerID != press.pointerID {
		return
	}

	// navigation is suppressed from here on, undo the pan jitter
	m.restoreNavigation(pan.Before)
	m.crosshair, m.showCrosshair = m.pointers[press.pointerID], true
	m.setState(Crosshair{PointerID: press.pointerID})
}

func (m *Machine) restoreNavigation(before chart.NavigationState) {
	vp := m.session.Viewport()
	vp.SetView(before.View)
	vp.SetPriceRange(before.PriceRange)
}

// handleResult applies the outcome of a builder step
func (m *Machine) handleResult(res drawing.Result) {
	switch res.Outcome {
	case drawing.Completed:
		d := res.Drawing
		m.session.AddDrawing(d)
		m.session.Select(d.ID)
		m.builder = nil
		m.tool = ""
		m.setState(None{})
		m.log.WithField("drawing", d.ID).Debugf("%s created", d.Kind())
		if res.EditText {
			m.editing = d.ID
			m.hooks.OnTextEdit(d.ID)
		}
	case drawing.Discarded:
		m.setState(None{})
	default:
		m.setState(Drawing{Tool: m.tool})
	}
}
