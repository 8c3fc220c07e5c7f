package interaction

import (
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/viewport"
)

// StateName identifies the active gesture
type StateName string

const (
	StateNone         StateName = "none"
	StatePanning      StateName = "panning"
	StateScaling      StateName = "scaling"
	StatePinching     StateName = "pinching"
	StateDrawing      StateName = "drawing"
	StateAiming       StateName = "aiming"
	StateMoving       StateName = "moving"
	StateResizing     StateName = "resizing"
	StateCrosshair    StateName = "crosshair"
	StateDraggingLine StateName = "dragging_line"
)

// State is the single active gesture. Each variant carries what it needs
// to compute deltas from the gesture start.
type State interface {
	Name() StateName
	state()
}

// None is the idle state
type None struct{}

// Panning drags the view. Before is restored by undo.
type Panning struct {
	PointerID  int
	Origin     core.Pixel
	Before     chart.NavigationState
	ShiftPrice bool
}

// Scaling drags one of the axes
type Scaling struct {
	PointerID int
	Axis      Area
	Origin    core.Pixel
	Before    chart.NavigationState
}

// Pinching zooms with two pointers
type Pinching struct {
	Pointers [2]int
	Pinch    viewport.Pinch
	Before   chart.NavigationState
}

// Drawing feeds pointer input to the drawing builder
type Drawing struct {
	Tool drawing.Kind
}

// Aiming tracks a touch that places the next point of the active tool
// where the finger is lifted.
type Aiming struct {
	PointerID int
	Tool      drawing.Kind
	Position  core.Pixel
}

// Moving translates a whole drawing
type Moving struct {
	PointerID int
	Origin    core.Point
	Initial   drawing.Drawing
	Current   drawing.Drawing
}

// Resizing drags one handle of a drawing
type Resizing struct {
	PointerID int
	Handle    drawing.HandleID
	Origin    core.Point
	Initial   drawing.Drawing
	Current   drawing.Drawing
}

// Crosshair only moves the crosshair; navigation is suppressed
type Crosshair struct {
	PointerID int
}

// DraggingLine drags the price line of a value-only alert
type DraggingLine struct {
	PointerID int
	AlertID   string
	Price     float64
}

func (None) Name() StateName         { return StateNone }
func (Panning) Name() StateName      { return StatePanning }
func (Scaling) Name() StateName      { return StateScaling }
func (Pinching) Name() StateName     { return StatePinching }
func (Drawing) Name() StateName      { return StateDrawing }
func (Aiming) Name() StateName       { return StateAiming }
func (Moving) Name() StateName       { return StateMoving }
func (Resizing) Name() StateName     { return StateResizing }
func (Crosshair) Name() StateName    { return StateCrosshair }
func (DraggingLine) Name() StateName { return StateDraggingLine }

func (None) state()         {}
func (Panning) state()      {}
func (Scaling) state()      {}
func (Pinching) state()     {}
func (Drawing) state()      {}
func (Aiming) state()       {}
func (Moving) state()       {}
func (Resizing) state()     {}
func (Crosshair) state()    {}
func (DraggingLine) state() {}
