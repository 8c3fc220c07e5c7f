package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

func TestDrawingTable(t *testing.T) {
	out := drawingTable(drawing.Collection{
		drawing.New("t1", drawing.Line{
			Variant: drawing.KindTrendLine,
			Start:   core.Point{Time: 100, Price: 1.5},
			End:     core.Point{Time: 200, Price: 2},
		}, drawing.DefaultStyle),
	})

	assert.Contains(t, out, "t1")
	assert.Contains(t, out, string(drawing.KindTrendLine))
	assert.Contains(t, out, "100@1.50 200@2.00")
}

func TestAlertTables(t *testing.T) {
	resolved := alertTable([]chart.ResolvedAlert{
		{Alert: alert.PriceAlert{ID: "a1", DrawingID: "t1", Condition: alert.Crossing}, Price: 101.25},
	})
	assert.Contains(t, resolved, "drawing t1")
	assert.Contains(t, resolved, "101.2500")

	stored := storedAlertTable([]alert.PriceAlert{
		{ID: "a2", IndicatorID: "sma", Condition: alert.GreaterThan},
		{ID: "a3", Value: alert.Float(99), Condition: alert.LessThan, Triggered: true},
	})
	assert.Contains(t, stored, "indicator sma/main")
	assert.Contains(t, stored, "value 99.0000")
	assert.Contains(t, stored, "true")
}
