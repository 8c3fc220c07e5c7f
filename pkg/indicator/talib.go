package indicator

import "github.com/markcheno/go-talib"

// MaType represents moving average type
type MaType = talib.MaType

// Moving average type constants
const (
	MaSMA = talib.SMA // Simple Moving Average
	MaEMA = talib.EMA // Exponential Moving Average
)

// ------------------------------------------
// Overlap Studies (Moving Averages, Bands)
// ------------------------------------------

// BB calculates Bollinger Bands
// Returns upper, middle, and lower bands
func BB(input []float64, period int, deviation float64, maType MaType) ([]float64, []float64, []float64) {
	return talib.BBands(input, period, deviation, deviation, maType)
}

// DEMA calculates Double Exponential Moving Average
func DEMA(input []float64, period int) []float64 {
	return talib.Dema(input, period)
}

// EMA calculates Exponential Moving Average
func EMA(input []float64, period int) []float64 {
	return talib.Ema(input, period)
}

// SMA calculates Simple Moving Average
func SMA(input []float64, period int) []float64 {
	return talib.Sma(input, period)
}

// TEMA calculates Triple Exponential Moving Average
func TEMA(input []float64, period int) []float64 {
	return talib.Tema(input, period)
}

// WMA calculates Weighted Moving Average
func WMA(input []float64, period int) []float64 {
	return talib.Wma(input, period)
}

// ---------------------------------------
// Momentum Indicators
// ---------------------------------------

// ADX calculates Average Directional Movement Index
func ADX(high []float64, low []float64, close []float64, period int) []float64 {
	return talib.Adx(high, low, close, period)
}

// CCI calculates Commodity Channel Index
func CCI(high []float64, low []float64, close []float64, period int) []float64 {
	return talib.Cci(high, low, close, period)
}

// MACD calculates Moving Average Convergence/Divergence
// Returns MACD, signal, and histogram
func MACD(input []float64, fastPeriod int, slowPeriod int, signalPeriod int) ([]float64, []float64, []float64) {
	return talib.Macd(input, fastPeriod, slowPeriod, signalPeriod)
}

// MFI calculates Money Flow Index
func MFI(high []float64, low []float64, close []float64, volume []float64, period int) []float64 {
	return talib.Mfi(high, low, close, volume, period)
}

// Momentum calculates Momentum
func Momentum(input []float64, period int) []float64 {
	return talib.Mom(input, period)
}

// RSI calculates Relative Strength Index
func RSI(input []float64, period int) []float64 {
	return talib.Rsi(input, period)
}

// Stoch calculates Slow Stochastic Indicator
// Returns slowK and slowD
func Stoch(high []float64, low []float64, close []float64, fastKPeriod int, slowKPeriod int,
	slowKMAType MaType, slowDPeriod int, slowDMAType MaType) ([]float64, []float64) {
	return talib.Stoch(high, low, close, fastKPeriod, slowKPeriod, slowKMAType, slowDPeriod, slowDMAType)
}

// WilliamsR calculates Williams' %R
func WilliamsR(high []float64, low []float64, close []float64, period int) []float64 {
	return talib.WillR(high, low, close, period)
}

// ---------------------------------------
// Volume and Volatility Indicators
// ---------------------------------------

// OBV calculates On Balance Volume
func OBV(input []float64, volume []float64) []float64 {
	return talib.Obv(input, volume)
}

// ATR calculates Average True Range
func ATR(high []float64, low []float64, close []float64, period int) []float64 {
	return talib.Atr(high, low, close, period)
}
