package core

// Candle represents one OHLCV bar. Time is the bar open in epoch seconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`
}

// OHLC returns the four price values in open, high, low, close order
func (c Candle) OHLC() [4]float64 {
	return [4]float64{c.Open, c.High, c.Low, c.Close}
}

// ToHeikinAshi transforms a regular candle into a Heikin-Ashi candle
func (c Candle) ToHeikinAshi(ha *HeikinAshi) Candle {
	haCandle := ha.CalculateHeikinAshi(c)
	haCandle.Time = c.Time
	haCandle.Volume = c.Volume
	return haCandle
}

// HeikinAshiSeries converts a full candle slice, oldest first
func HeikinAshiSeries(candles []Candle) []Candle {
	ha := NewHeikinAshi()
	out := make([]Candle, len(candles))
	for i, c := range candles {
		out[i] = c.ToHeikinAshi(ha)
	}
	return out
}
