package viewport

import "math"

// TimeToIndex converts an absolute time into a fractional data index,
// extrapolating linearly with the candle interval outside the data.
func (m *Model) TimeToIndex(t int64) float64 {
	n := len(m.candles)
	if n == 0 || m.interval <= 0 {
		return 0
	}

	first, last := m.candles[0].Time, m.candles[n-1].Time
	switch {
	case t <= first:
		return float64(t-first) / float64(m.interval)
	case t >= last:
		return float64(n-1) + float64(t-last)/float64(m.interval)
	}

	i := m.searchTime(t)
	lo, hi := m.candles[i].Time, m.candles[i+1].Time
	if hi == lo {
		return float64(i)
	}
	return float64(i) + float64(t-lo)/float64(hi-lo)
}

// IndexToTime is the inverse of TimeToIndex
func (m *Model) IndexToTime(index float64) int64 {
	n := len(m.candles)
	if n == 0 {
		return int64(math.Round(index * float64(m.interval)))
	}

	first, last := m.candles[0].Time, m.candles[n-1].Time
	switch {
	case index <= 0:
		return first + int64(math.Round(index*float64(m.interval)))
	case index >= float64(n-1):
		return last + int64(math.Round((index-float64(n-1))*float64(m.interval)))
	}

	i := int(math.Floor(index))
	frac := index - float64(i)
	lo, hi := m.candles[i].Time, m.candles[i+1].Time
	return lo + int64(math.Round(frac*float64(hi-lo)))
}

// TimeToX returns the pixel x of an absolute time
func (m *Model) TimeToX(t int64) float64 {
	return m.IndexToX(m.TimeToIndex(t))
}

// XToTime returns the absolute time under pixel x. Inside the data range it
// round-trips TimeToX exactly.
func (m *Model) XToTime(x float64) int64 {
	return m.IndexToTime(m.xToFractional(x) - 0.5)
}
