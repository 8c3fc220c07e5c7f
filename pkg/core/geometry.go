package core

import "math"

// Epsilon is the tolerance used to guard numeric degeneracy
const Epsilon = 1e-9

// Point is a coordinate in domain space
type Point struct {
	Time  int64   `json:"time"`
	Price float64 `json:"price"`
}

// Add returns p shifted by dt seconds and dp price units
func (p Point) Add(dt int64, dp float64) Point {
	return Point{Time: p.Time + dt, Price: p.Price + dp}
}

// Sub returns the domain delta from o to p
func (p Point) Sub(o Point) (int64, float64) {
	return p.Time - o.Time, p.Price - o.Price
}

// Pixel is a screen coordinate relative to the chart area origin
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceSq returns the squared euclidean distance between two pixels
func (p Pixel) DistanceSq(o Pixel) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance between two pixels
func (p Pixel) Distance(o Pixel) float64 {
	return math.Sqrt(p.DistanceSq(o))
}

// ViewState is the visible window into the candle series
type ViewState struct {
	StartIndex     float64 `json:"startIndex"`
	VisibleCandles float64 `json:"visibleCandles"`
}

// IsFinite reports whether both fields hold finite numbers
func (v ViewState) IsFinite() bool {
	return isFinite(v.StartIndex) && isFinite(v.VisibleCandles)
}

// EndIndex returns the (exclusive) fractional index of the right edge
func (v ViewState) EndIndex() float64 {
	return v.StartIndex + v.VisibleCandles
}

// PriceRange is the visible price interval. Min is always lower than Max
// once normalized.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min
func (r PriceRange) Span() float64 { return r.Max - r.Min }

// Center returns the middle of the range
func (r PriceRange) Center() float64 { return (r.Min + r.Max) / 2 }

// IsFinite reports whether both bounds are finite
func (r PriceRange) IsFinite() bool { return isFinite(r.Min) && isFinite(r.Max) }

// Normalize orders the bounds and expands a degenerate range by an epsilon
// proportional to its magnitude.
func (r PriceRange) Normalize() PriceRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Max-r.Min < Epsilon {
		pad := math.Max(math.Abs(r.Min)*0.01, 1e-6)
		r.Min -= pad
		r.Max += pad
	}
	return r
}

// Shift moves both bounds by delta
func (r PriceRange) Shift(delta float64) PriceRange {
	return PriceRange{Min: r.Min + delta, Max: r.Max + delta}
}

// Scale rescales the range width around its center
func (r PriceRange) Scale(factor float64) PriceRange {
	center, half := r.Center(), r.Span()/2*factor
	return PriceRange{Min: center - half, Max: center + half}
}

// ChartType selects how candles are rendered
type ChartType string

const (
	ChartCandles       ChartType = "candles"
	ChartHollowCandles ChartType = "hollow_candles"
	ChartBars          ChartType = "bars"
	ChartLine          ChartType = "line"
	ChartArea          ChartType = "area"
	ChartHeikinAshi    ChartType = "heikin_ashi"
)

// ChartTypes lists the toggle order of chart types
var ChartTypes = []ChartType{
	ChartCandles, ChartHollowCandles, ChartBars, ChartLine, ChartArea, ChartHeikinAshi,
}

// Valid reports whether t is a known chart type
func (t ChartType) Valid() bool {
	for _, known := range ChartTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Next returns the chart type following t in toggle order
func (t ChartType) Next() ChartType {
	for i, known := range ChartTypes {
		if known == t {
			return ChartTypes[(i+1)%len(ChartTypes)]
		}
	}
	return ChartCandles
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
