package alert

import (
	"fmt"

	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// DrawingSource looks up drawings by id. drawing.Collection satisfies it.
type DrawingSource interface {
	Get(id string) (drawing.Drawing, bool)
}

// IndicatorSource looks up computed indicator instances by id
type IndicatorSource interface {
	Indicator(id string) (core.ChartIndicator, bool)
}

// Resolver turns alerts into concrete prices for the drawing or indicator
// state they currently point at.
type Resolver struct {
	Drawings   DrawingSource
	Indicators IndicatorSource
}

// Resolve evaluates the alert at its drawing's anchor time. A non-nil
// override with the alert's drawing id replaces the stored geometry, so
// alerts follow a drawing that is being moved.
func (r Resolver) Resolve(a PriceAlert, override *drawing.Drawing) (float64, error) {
	if a.DrawingID != "" {
		d, err := r.drawing(a, override)
		if err != nil {
			return 0, err
		}
		return ResolveDrawing(d, a.FibLevel, d.Anchor().Time)
	}
	return r.resolveOther(a)
}

// ResolveAt evaluates a drawing alert at time t instead of the anchor time
func (r Resolver) ResolveAt(a PriceAlert, t int64, override *drawing.Drawing) (float64, error) {
	if a.DrawingID != "" {
		d, err := r.drawing(a, override)
		if err != nil {
			return 0, err
		}
		return ResolveDrawing(d, a.FibLevel, t)
	}
	return r.resolveOther(a)
}

func (r Resolver) drawing(a PriceAlert, override *drawing.Drawing) (drawing.Drawing, error) {
	if override != nil && override.ID == a.DrawingID {
		return *override, nil
	}
	if r.Drawings != nil {
		if d, ok := r.Drawings.Get(a.DrawingID); ok {
			return d, nil
		}
	}
	return drawing.Drawing{}, core.NewError(core.CodeNotFound, fmt.Sprintf("drawing %s", a.DrawingID), nil)
}

func (r Resolver) resolveOther(a PriceAlert) (float64, error) {
	if a.IndicatorID != "" {
		if r.Indicators == nil {
			return 0, core.NewError(core.CodeNotFound, fmt.Sprintf("indicator %s", a.IndicatorID), nil)
		}
		ind, ok := r.Indicators.Indicator(a.IndicatorID)
		if !ok {
			return 0, core.NewError(core.CodeNotFound, fmt.Sprintf("indicator %s", a.IndicatorID), nil)
		}
		value, ok := indicator.Latest(ind, a.Output())
		if !ok {
			return 0, core.NewError(core.CodeUnresolvable, fmt.Sprintf("indicator %s has no %s value", a.IndicatorID, a.Output()), nil)
		}
		return value, nil
	}

	if a.Value != nil {
		return *a.Value, nil
	}
	return 0, core.NewError(core.CodeUnresolvable, fmt.Sprintf("alert %s has no target", a.ID), nil)
}

// ResolveDrawing evaluates a drawing at time t. Fibonacci drawings need a
// level; the other supported kinds are the line-like ones.
func ResolveDrawing(d drawing.Drawing, fibLevel *float64, t int64) (float64, error) {
	if fib, ok := d.Shape.(drawing.Fibonacci); ok {
		if fibLevel == nil {
			return 0, core.NewError(core.CodeUnresolvable, fmt.Sprintf("drawing %s needs a fib level", d.ID), nil)
		}
		return fib.LevelPrice(*fibLevel), nil
	}

	price, ok := drawing.PriceAt(d.Shape, t)
	if !ok {
		return 0, core.NewError(core.CodeUnresolvable, fmt.Sprintf("drawing %s (%s) has no price", d.ID, d.Kind()), nil)
	}
	return price, nil
}

// Supported reports whether alerts can be attached to the drawing
func Supported(d drawing.Drawing) bool {
	switch d.Kind() {
	case drawing.KindHorizontalLine, drawing.KindTrendLine, drawing.KindRay,
		drawing.KindHorizontalRay, drawing.KindFibRetracement:
		return true
	}
	return false
}
