// Package indicator maps indicator configurations onto talib-backed
// functions producing named output series.
package indicator

import (
	"fmt"
	"math"
	"sort"

	"github.com/raykavin/chartcore/pkg/core"
)

// Type identifies an indicator function
type Type string

const (
	TypeSMA        Type = "sma"
	TypeEMA        Type = "ema"
	TypeWMA        Type = "wma"
	TypeDEMA       Type = "dema"
	TypeTEMA       Type = "tema"
	TypeBollinger  Type = "bollinger"
	TypeSuperTrend Type = "supertrend"
	TypeRSI        Type = "rsi"
	TypeMACD       Type = "macd"
	TypeStochastic Type = "stochastic"
	TypeCCI        Type = "cci"
	TypeWilliamsR  Type = "williams_r"
	TypeADX        Type = "adx"
	TypeMFI        Type = "mfi"
	TypeMomentum   Type = "momentum"
	TypeOBV        Type = "obv"
	TypeATR        Type = "atr"
)

// Output names shared by several definitions
const (
	OutputMain   = "main"
	OutputUpper  = "upper"
	OutputMiddle = "middle"
	OutputLower  = "lower"
	OutputMACD   = "macd"
	OutputSignal = "signal"
	OutputHist   = "hist"
	OutputK      = "k"
	OutputD      = "d"
)

// Settings holds the numeric parameters of an indicator instance
type Settings map[string]float64

// Int returns a setting rounded to an int
func (s Settings) Int(key string) int { return int(math.Round(s[key])) }

// Output describes one series produced by a definition
type Output struct {
	Name  string
	Style core.MetricStyle
}

// Definition binds an indicator type to its function
type Definition struct {
	Type     Type
	Name     string
	Overlay  bool
	Defaults Settings
	Outputs  []Output

	warmup  func(Settings) int
	compute func(df *core.Dataframe, s Settings) [][]float64
}

func line(names ...string) []Output {
	outputs := make([]Output, len(names))
	for i, name := range names {
		outputs[i] = Output{Name: name, Style: core.StyleLine}
	}
	return outputs
}

func period(s Settings) int { return s.Int("period") }

func single(fn func([]float64, int) []float64) func(*core.Dataframe, Settings) [][]float64 {
	return func(df *core.Dataframe, s Settings) [][]float64 {
		return [][]float64{fn(df.Close, period(s))}
	}
}

func hlc(fn func(high, low, close []float64, period int) []float64) func(*core.Dataframe, Settings) [][]float64 {
	return func(df *core.Dataframe, s Settings) [][]float64 {
		return [][]float64{fn(df.High, df.Low, df.Close, period(s))}
	}
}

var definitions = map[Type]Definition{
	TypeSMA: {
		Type: TypeSMA, Name: "SMA", Overlay: true, Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), warmup: period, compute: single(SMA),
	},
	TypeEMA: {
		Type: TypeEMA, Name: "EMA", Overlay: true, Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), warmup: period, compute: single(EMA),
	},
	TypeWMA: {
		Type: TypeWMA, Name: "WMA", Overlay: true, Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), warmup: period, compute: single(WMA),
	},
	TypeDEMA: {
		Type: TypeDEMA, Name: "DEMA", Overlay: true, Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), compute: single(DEMA),
		warmup: func(s Settings) int { return 2 * period(s) },
	},
	TypeTEMA: {
		Type: TypeTEMA, Name: "TEMA", Overlay: true, Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), compute: single(TEMA),
		warmup: func(s Settings) int { return 3 * period(s) },
	},
	TypeBollinger: {
		Type: TypeBollinger, Name: "BB", Overlay: true, Defaults: Settings{"period": 20, "deviation": 2},
		Outputs: line(OutputUpper, OutputMiddle, OutputLower), warmup: period,
		compute: func(df *core.Dataframe, s Settings) [][]float64 {
			upper, middle, lower := BB(df.Close, period(s), s["deviation"], MaSMA)
			return [][]float64{upper, middle, lower}
		},
	},
	TypeSuperTrend: {
		Type: TypeSuperTrend, Name: "SuperTrend", Overlay: true, Defaults: Settings{"period": 10, "factor": 3},
		Outputs: []Output{{Name: OutputMain, Style: core.StyleScatter}}, warmup: period,
		compute: func(df *core.Dataframe, s Settings) [][]float64 {
			return [][]float64{SuperTrend(df.High, df.Low, df.Close, period(s), s["factor"])}
		},
	},
	TypeRSI: {
		Type: TypeRSI, Name: "RSI", Defaults: Settings{"period": 14},
		Outputs: line(OutputMain), warmup: period, compute: single(RSI),
	},
	TypeMACD: {
		Type: TypeMACD, Name: "MACD", Defaults: Settings{"fast": 12, "slow": 26, "signal": 9},
		Outputs: []Output{
			{Name: OutputMACD, Style: core.StyleLine},
			{Name: OutputSignal, Style: core.StyleLine},
			{Name: OutputHist, Style: core.StyleHistogram},
		},
		warmup: func(s Settings) int { return s.Int("slow") + s.Int("signal") },
		compute: func(df *core.Dataframe, s Settings) [][]float64 {
			macd, signal, hist := MACD(df.Close, s.Int("fast"), s.Int("slow"), s.Int("signal"))
			return [][]float64{macd, signal, hist}
		},
	},
	TypeStochastic: {
		Type: TypeStochastic, Name: "Stoch", Defaults: Settings{"k": 14, "slow_k": 3, "d": 3},
		Outputs: line(OutputK, OutputD),
		warmup:  func(s Settings) int { return s.Int("k") + s.Int("slow_k") + s.Int("d") },
		compute: func(df *core.Dataframe, s Settings) [][]float64 {
			k, d := Stoch(df.High, df.Low, df.Close, s.Int("k"), s.Int("slow_k"), MaSMA, s.Int("d"), MaSMA)
			return [][]float64{k, d}
		},
	},
	TypeCCI: {
		Type: TypeCCI, Name: "CCI", Defaults: Settings{"period": 20},
		Outputs: line(OutputMain), warmup: period, compute: hlc(CCI),
	},
	TypeWilliamsR: {
		Type: TypeWilliamsR, Name: "%R", Defaults: Settings{"period": 14},
		Outputs: line(OutputMain), warmup: period, compute: hlc(WilliamsR),
	},
	TypeADX: {
		Type: TypeADX, Name: "ADX", Defaults: Settings{"period": 14},
		Outputs: line(OutputMain), compute: hlc(ADX),
		warmup: func(s Settings) int { return 2 * period(s) },
	},
	TypeMFI: {
		Type: TypeMFI, Name: "MFI", Defaults: Settings{"period": 14},
		Outputs: line(OutputMain), warmup: period,
		compute: func(df *core.Dataframe, s Settings) [][]float64 {
			return [][]float64{MFI(df.High, df.Low, df.Close, df.Volume, period(s))}
		},
	},
	TypeMomentum: {
		Type: TypeMomentum, Name: "MOM", Defaults: Settings{"period": 10},
		Outputs: line(OutputMain), warmup: period, compute: single(Momentum),
	},
	TypeOBV: {
		Type: TypeOBV, Name: "OBV", Defaults: Settings{},
		Outputs: []Output{{Name: OutputMain, Style: core.StyleBar}},
		warmup:  func(Settings) int { return 1 },
		compute: func(df *core.Dataframe, _ Settings) [][]float64 {
			return [][]float64{OBV(df.Close, df.Volume)}
		},
	},
	TypeATR: {
		Type: TypeATR, Name: "ATR", Defaults: Settings{"period": 14},
		Outputs: line(OutputMain), warmup: period, compute: hlc(ATR),
	},
}

// Lookup returns the definition of an indicator type
func Lookup(t Type) (Definition, bool) {
	def, ok := definitions[t]
	return def, ok
}

// Types returns every registered type in name order
func Types() []Type {
	types := make([]Type, 0, len(definitions))
	for t := range definitions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Config is a persisted indicator instance
type Config struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Settings Settings `json:"settings,omitempty"`
	Color    string   `json:"color"`
	Visible  bool     `json:"visible"`
	Overlay  bool     `json:"overlay"`
}

// NewConfig creates a visible instance with the type's default settings
func NewConfig(id string, t Type, color string) (Config, error) {
	def, ok := Lookup(t)
	if !ok {
		return Config{}, core.NewError(core.CodeValidation, fmt.Sprintf("unknown indicator type %q", t), nil)
	}
	return Config{
		ID:       id,
		Type:     t,
		Settings: def.Defaults.clone(),
		Color:    color,
		Visible:  true,
		Overlay:  def.Overlay,
	}, nil
}

// Clone returns a deep copy of the config
func (c Config) Clone() Config {
	c.Settings = c.Settings.clone()
	return c
}

// Label returns a display name such as EMA(20)
func (c Config) Label() string {
	def, ok := Lookup(c.Type)
	if !ok {
		return string(c.Type)
	}
	s := c.effective(def)
	switch c.Type {
	case TypeMACD:
		return fmt.Sprintf("%s(%d,%d,%d)", def.Name, s.Int("fast"), s.Int("slow"), s.Int("signal"))
	case TypeStochastic:
		return fmt.Sprintf("%s(%d,%d,%d)", def.Name, s.Int("k"), s.Int("slow_k"), s.Int("d"))
	case TypeBollinger:
		return fmt.Sprintf("%s(%d,%.1f)", def.Name, period(s), s["deviation"])
	case TypeSuperTrend:
		return fmt.Sprintf("%s(%d,%.1f)", def.Name, period(s), s["factor"])
	case TypeOBV:
		return def.Name
	}
	return fmt.Sprintf("%s(%d)", def.Name, period(s))
}

func (c Config) effective(def Definition) Settings {
	s := def.Defaults.clone()
	if s == nil {
		s = Settings{}
	}
	for k, v := range c.Settings {
		s[k] = v
	}
	return s
}

func (s Settings) clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Compute runs the indicator over the candles. Values inside the warmup
// window are trimmed; with too few candles every output is empty.
func Compute(cfg Config, candles []core.Candle) (core.ChartIndicator, error) {
	def, ok := Lookup(cfg.Type)
	if !ok {
		return core.ChartIndicator{}, core.NewError(core.CodeValidation, fmt.Sprintf("unknown indicator type %q", cfg.Type), nil)
	}

	settings := cfg.effective(def)
	warmup := def.warmup(settings)
	result := core.ChartIndicator{
		ID:        cfg.ID,
		Overlay:   cfg.Overlay,
		GroupName: cfg.Label(),
		Warmup:    warmup,
		Metrics:   make([]core.IndicatorMetric, len(def.Outputs)),
	}
	for i, out := range def.Outputs {
		result.Metrics[i] = core.IndicatorMetric{Name: out.Name, Color: cfg.Color, Style: out.Style}
	}

	if warmup < 1 || len(candles) <= warmup {
		return result, nil
	}

	df := core.NewDataframe("", candles)
	series := def.compute(df, settings)
	result.Time = append([]int64(nil), df.Time[warmup:]...)
	for i := range result.Metrics {
		result.Metrics[i].Values = append(core.Series[float64](nil), series[i][warmup:]...)
	}
	return result, nil
}

// Latest returns the last finite value of a named output
func Latest(ind core.ChartIndicator, output string) (float64, bool) {
	for _, m := range ind.Metrics {
		if m.Name == output {
			return core.LastFinite(m.Values)
		}
	}
	return 0, false
}
