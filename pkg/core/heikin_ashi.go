package core

import (
	"math"
)

// HeikinAshi handles the calculation of Heikin-Ashi candles
type HeikinAshi struct {
	previous Candle
	started  bool
}

// NewHeikinAshi creates a new HeikinAshi calculator
func NewHeikinAshi() *HeikinAshi {
	return &HeikinAshi{}
}

// CalculateHeikinAshi transforms a standard candle into a Heikin-Ashi candle
// Formula:
// - HA_Close = (Open + High + Low + Close) / 4
// - HA_Open = (Previous HA_Open + Previous HA_Close) / 2
// - HA_High = Max(High, HA_Open, HA_Close)
// - HA_Low = Min(Low, HA_Open, HA_Close)
func (ha *HeikinAshi) CalculateHeikinAshi(c Candle) Candle {
	var hk Candle

	openValue := ha.previous.Open
	closeValue := ha.previous.Close

	// First HA candle is calculated using current candle
	if !ha.started {
		openValue = c.Open
		closeValue = c.Close
	}

	hk.Open = (openValue + closeValue) / 2
	hk.Close = (c.Open + c.High + c.Low + c.Close) / 4
	hk.High = math.Max(c.High, math.Max(hk.Open, hk.Close))
	hk.Low = math.Min(c.Low, math.Min(hk.Open, hk.Close))

	ha.previous = hk
	ha.started = true

	return hk
}
