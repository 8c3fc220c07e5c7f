package indicator

// SuperTrend follows price with ATR bands and flips side when the close
// crosses the active band.
func SuperTrend(high, low, close []float64, atrPeriod int, factor float64) []float64 {
	length := len(close)
	if length == 0 {
		return []float64{}
	}

	atr := ATR(high, low, close, atrPeriod)

	finalUpper := make([]float64, length)
	finalLower := make([]float64, length)
	superTrend := make([]float64, length)

	finalUpper[0], finalLower[0] = superTrendBands(high[0], low[0], atr[0], factor)
	superTrend[0] = finalUpper[0]

	for i := 1; i < length; i++ {
		basicUpper, basicLower := superTrendBands(high[i], low[i], atr[i], factor)

		finalUpper[i] = finalUpper[i-1]
		if basicUpper < finalUpper[i-1] || close[i-1] > finalUpper[i-1] {
			finalUpper[i] = basicUpper
		}

		finalLower[i] = finalLower[i-1]
		if basicLower > finalLower[i-1] || close[i-1] < finalLower[i-1] {
			finalLower[i] = basicLower
		}

		// the previous value sat on the upper band: the trend was down
		if superTrend[i-1] == finalUpper[i-1] {
			superTrend[i] = finalUpper[i]
			if close[i] > finalUpper[i] {
				superTrend[i] = finalLower[i]
			}
			continue
		}

		superTrend[i] = finalLower[i]
		if close[i] < finalLower[i] {
			superTrend[i] = finalUpper[i]
		}
	}

	return superTrend
}

func superTrendBands(high, low, atr, factor float64) (float64, float64) {
	median := (high + low) / 2.0
	return median + atr*factor, median - atr*factor
}
