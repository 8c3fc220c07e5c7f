package indicator

import (
	"testing"

	"github.com/raykavin/chartcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rising(n int) []core.Candle {
	candles := make([]core.Candle, n)
	for i := range candles {
		price := float64(i + 1)
		candles[i] = core.Candle{
			Time:   int64(i) * 3600,
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 100,
		}
	}
	return candles
}

func TestCompute_SMA(t *testing.T) {
	cfg, err := NewConfig("sma-1", TypeSMA, "#FF9800")
	require.NoError(t, err)
	cfg.Settings["period"] = 3

	result, err := Compute(cfg, rising(10))
	require.NoError(t, err)

	assert.Equal(t, "SMA(3)", result.GroupName)
	assert.True(t, result.Overlay)
	require.Len(t, result.Metrics, 1)
	require.Len(t, result.Time, 7)
	assert.Equal(t, int64(3*3600), result.Time[0])

	values := result.Metrics[0].Values
	assert.InDelta(t, 3, values[0], 1e-9)
	assert.InDelta(t, 9, values.Last(0), 1e-9)

	latest, ok := Latest(result, OutputMain)
	require.True(t, ok)
	assert.InDelta(t, 9, latest, 1e-9)

	_, ok = Latest(result, "missing")
	assert.False(t, ok)
}

func TestCompute_NamedOutputs(t *testing.T) {
	tests := []struct {
		typ     Type
		outputs []string
	}{
		{TypeBollinger, []string{OutputUpper, OutputMiddle, OutputLower}},
		{TypeMACD, []string{OutputMACD, OutputSignal, OutputHist}},
		{TypeStochastic, []string{OutputK, OutputD}},
		{TypeRSI, []string{OutputMain}},
		{TypeSuperTrend, []string{OutputMain}},
		{TypeOBV, []string{OutputMain}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			cfg, err := NewConfig("id", tt.typ, "#000")
			require.NoError(t, err)

			result, err := Compute(cfg, rising(120))
			require.NoError(t, err)
			require.Len(t, result.Metrics, len(tt.outputs))
			for i, name := range tt.outputs {
				assert.Equal(t, name, result.Metrics[i].Name)
				assert.Len(t, result.Metrics[i].Values, len(result.Time))
				_, ok := Latest(result, name)
				assert.True(t, ok)
			}
		})
	}
}

func TestCompute_NotEnoughCandles(t *testing.T) {
	cfg, err := NewConfig("rsi", TypeRSI, "#000")
	require.NoError(t, err)

	result, err := Compute(cfg, rising(5))
	require.NoError(t, err)
	require.Len(t, result.Metrics, 1)
	assert.Empty(t, result.Metrics[0].Values)

	_, ok := Latest(result, OutputMain)
	assert.False(t, ok)
}

func TestCompute_UnknownType(t *testing.T) {
	_, err := Compute(Config{ID: "x", Type: "ichimoku"}, rising(10))
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = NewConfig("x", "ichimoku", "")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestConfig_CloneAndLabel(t *testing.T) {
	cfg, err := NewConfig("macd", TypeMACD, "#000")
	require.NoError(t, err)
	assert.Equal(t, "MACD(12,26,9)", cfg.Label())
	assert.False(t, cfg.Overlay)

	clone := cfg.Clone()
	clone.Settings["fast"] = 5
	assert.Equal(t, 12.0, cfg.Settings["fast"])

	// missing keys fall back to the defaults
	partial := Config{Type: TypeBollinger, Settings: Settings{"period": 10}}
	assert.Equal(t, "BB(10,2.0)", partial.Label())
}

func TestSuperTrend_FlipsWithTrend(t *testing.T) {
	candles := rising(60)
	df := core.NewDataframe("", candles)
	values := SuperTrend(df.High, df.Low, df.Close, 10, 3)

	require.Len(t, values, len(candles))
	// in a steady rise the line ends below the price
	assert.Less(t, values[len(values)-1], df.Close.Last(0))
}

func TestTypes_Sorted(t *testing.T) {
	types := Types()
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.Less(t, string(types[i-1]), string(types[i]))
	}
}
