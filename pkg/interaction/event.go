package interaction

import (
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

// EventType names the input the machine consumes
type EventType string

const (
	PointerDown   EventType = "pointer_down"
	PointerMove   EventType = "pointer_move"
	PointerUp     EventType = "pointer_up"
	PointerCancel EventType = "pointer_cancel"
	PointerLeave  EventType = "pointer_leave"
	DoubleClick   EventType = "double_click"
	Wheel         EventType = "wheel"
	KeyDown       EventType = "key_down"
	Tick          EventType = "tick"
	SelectTool    EventType = "select_tool"
)

// PointerType is the device that produced a pointer event
type PointerType string

const (
	Mouse PointerType = "mouse"
	Touch PointerType = "touch"
	Pen   PointerType = "pen"
)

// Area is the part of the chart a pointer event happened in
type Area string

const (
	AreaChart     Area = "chart"
	AreaPriceAxis Area = "price_axis"
	AreaTimeAxis  Area = "time_axis"
)

// Keys handled by the machine
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// Event is one input. At is a monotonic timestamp in milliseconds and is
// used for the long-press deadline.
type Event struct {
	Type      EventType    `json:"type" yaml:"type"`
	PointerID int          `json:"pointerId,omitempty" yaml:"pointer_id,omitempty"`
	Pointer   PointerType  `json:"pointer,omitempty" yaml:"pointer,omitempty"`
	Area      Area         `json:"area,omitempty" yaml:"area,omitempty"`
	X         float64      `json:"x" yaml:"x"`
	Y         float64      `json:"y" yaml:"y"`
	DeltaY    float64      `json:"deltaY,omitempty" yaml:"delta_y,omitempty"`
	Key       string       `json:"key,omitempty" yaml:"key,omitempty"`
	Ctrl      bool         `json:"ctrl,omitempty" yaml:"ctrl,omitempty"`
	Meta      bool         `json:"meta,omitempty" yaml:"meta,omitempty"`
	Shift     bool         `json:"shift,omitempty" yaml:"shift,omitempty"`
	Alt       bool         `json:"alt,omitempty" yaml:"alt,omitempty"`
	Tool      drawing.Kind `json:"tool,omitempty" yaml:"tool,omitempty"`
	At        int64        `json:"at,omitempty" yaml:"at,omitempty"`
}

// Pixel returns the event position
func (e Event) Pixel() core.Pixel { return core.Pixel{X: e.X, Y: e.Y} }

func (e Event) pointerType() PointerType {
	if e.Pointer == "" {
		return Mouse
	}
	return e.Pointer
}

func (e Event) area() Area {
	if e.Area == "" {
		return AreaChart
	}
	return e.Area
}

func (e Event) command() bool { return e.Ctrl || e.Meta }
