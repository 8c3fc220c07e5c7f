package plot

import (
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

// Candle is a visible candle with its pixel geometry
type Candle struct {
	Index  int     `json:"index"`
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	X      float64 `json:"x"`
	OpenY  float64 `json:"openY"`
	HighY  float64 `json:"highY"`
	LowY   float64 `json:"lowY"`
	CloseY float64 `json:"closeY"`
}

// Handle is a drag handle in pixel space
type Handle struct {
	Name  string     `json:"name"`
	Index int        `json:"index,omitempty"`
	Pixel core.Pixel `json:"pixel"`
}

// Level is one horizontal level of a fibonacci or gann drawing
type Level struct {
	Level float64 `json:"level"`
	Price float64 `json:"price"`
	Y     float64 `json:"y"`
}

// Shape is the pixel geometry of one drawing
type Shape struct {
	ID       string        `json:"id"`
	Kind     drawing.Kind  `json:"kind"`
	Style    drawing.Style `json:"style"`
	Locked   bool          `json:"locked,omitempty"`
	Selected bool          `json:"selected,omitempty"`
	Step     int           `json:"step,omitempty"`
	Text     string        `json:"text,omitempty"`
	Points   []core.Pixel  `json:"points"`
	Handles  []Handle      `json:"handles,omitempty"`
	Levels   []Level       `json:"levels,omitempty"`
}

// Crosshair is the crosshair position with the tooltip content
type Crosshair struct {
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Time   int64        `json:"time"`
	Price  float64      `json:"price"`
	Candle *core.Candle `json:"candle,omitempty"`
}

// AlertLine is an active alert resolved to a price
type AlertLine struct {
	ID        string  `json:"id"`
	DrawingID string  `json:"drawingId,omitempty"`
	Price     float64 `json:"price"`
	Y         float64 `json:"y"`
	Message   string  `json:"message,omitempty"`
	Triggered bool    `json:"triggered,omitempty"`
}

// indicatorMetric is one visible output line of an indicator
type indicatorMetric struct {
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Style  string    `json:"style"`
	Time   []int64   `json:"time"`
	Values []float64 `json:"value"`
}

// plotIndicator is the visible part of an indicator instance
type plotIndicator struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Overlay bool              `json:"overlay"`
	Metrics []indicatorMetric `json:"metrics"`
}

// Frame is everything the rendering layer needs to paint one chart
type Frame struct {
	Symbol     string          `json:"symbol"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	View       core.ViewState  `json:"view"`
	PriceRange core.PriceRange `json:"priceRange"`
	ChartType  core.ChartType  `json:"chartType"`
	AutoScale  bool            `json:"autoScale"`
	State      string          `json:"state"`
	Tool       drawing.Kind    `json:"tool,omitempty"`
	Candles    []Candle        `json:"candles"`
	Drawings   []Shape         `json:"drawings"`
	Current    *Shape          `json:"current,omitempty"`
	Crosshair  *Crosshair      `json:"crosshair,omitempty"`
	Alerts     []AlertLine     `json:"alerts"`
	Indicators []plotIndicator `json:"indicators"`
}
