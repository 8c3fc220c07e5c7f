// Package config holds the tunable constants of the chart engine and loads
// them from an optional yaml file and CHARTCORE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "CHARTCORE"

// Settings holds every numeric constant the core depends on
type Settings struct {
	Viewport    ViewportSettings    `mapstructure:"viewport"`
	Drawing     DrawingSettings     `mapstructure:"drawing"`
	Interaction InteractionSettings `mapstructure:"interaction"`
	History     HistorySettings     `mapstructure:"history"`
	Storage     StorageSettings     `mapstructure:"storage"`
	Server      ServerSettings      `mapstructure:"server"`
	Log         LogSettings         `mapstructure:"log"`
}

// ViewportSettings configures navigation clamping and zoom
type ViewportSettings struct {
	MinCandles          float64 `mapstructure:"min_candles"`
	MaxCandlesFactor    float64 `mapstructure:"max_candles_factor"`
	MaxCandlesCap       float64 `mapstructure:"max_candles_cap"`
	RightPaddingMin     float64 `mapstructure:"right_padding_min"`
	DefaultVisible      float64 `mapstructure:"default_visible"`
	ZoomSensitivity     float64 `mapstructure:"zoom_sensitivity"`
	AxisDragSensitivity float64 `mapstructure:"axis_drag_sensitivity"`
	PricePadding        float64 `mapstructure:"price_padding"`
	Timeframe           string  `mapstructure:"timeframe"`
}

// DrawingSettings configures hit-testing and point capture
type DrawingSettings struct {
	HandleRadius     float64 `mapstructure:"handle_radius"`
	HitboxWidth      float64 `mapstructure:"hitbox_width"`
	SnapThreshold    float64 `mapstructure:"snap_threshold"`
	SnapRadius       int     `mapstructure:"snap_radius"`
	BrushMinDistance float64 `mapstructure:"brush_min_distance"`
	BrushEpsilon     float64 `mapstructure:"brush_epsilon"`
	PositionPercent  float64 `mapstructure:"position_percent"`
	PositionBars     int     `mapstructure:"position_bars"`
}

// InteractionSettings configures touch gestures
type InteractionSettings struct {
	LongPress          time.Duration `mapstructure:"long_press"`
	LongPressTolerance float64       `mapstructure:"long_press_tolerance"`
}

// HistorySettings configures the undo stack
type HistorySettings struct {
	Limit int `mapstructure:"limit"`
}

// StorageSettings configures the persistence collaborators
type StorageSettings struct {
	Driver     string        `mapstructure:"driver"`
	Path       string        `mapstructure:"path"`
	QueueSize  int           `mapstructure:"queue_size"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryMin   time.Duration `mapstructure:"retry_min"`
	RetryMax   time.Duration `mapstructure:"retry_max"`
}

// ServerSettings configures the frame server
type ServerSettings struct {
	Port int `mapstructure:"port"`
}

// LogSettings configures the zerolog console writer
type LogSettings struct {
	Level      string `mapstructure:"level"`
	TimeLayout string `mapstructure:"time_layout"`
	Colored    bool   `mapstructure:"colored"`
	JSON       bool   `mapstructure:"json"`
}

// Default returns the built-in settings
func Default() Settings {
	return Settings{
		Viewport: ViewportSettings{
			MinCandles:          5,
			MaxCandlesFactor:    2,
			MaxCandlesCap:       500,
			RightPaddingMin:     10,
			DefaultVisible:      120,
			ZoomSensitivity:     0.0015,
			AxisDragSensitivity: 0.005,
			PricePadding:        0.1,
			Timeframe:           "1h",
		},
		Drawing: DrawingSettings{
			HandleRadius:     6,
			HitboxWidth:      6,
			SnapThreshold:    10,
			SnapRadius:       2,
			BrushMinDistance: 3,
			BrushEpsilon:     2,
			PositionPercent:  0.01,
			PositionBars:     20,
		},
		Interaction: InteractionSettings{
			LongPress:          500 * time.Millisecond,
			LongPressTolerance: 10,
		},
		History: HistorySettings{
			Limit: 50,
		},
		Storage: StorageSettings{
			Driver:     "bunt",
			Path:       ":memory:",
			QueueSize:  256,
			MaxRetries: 3,
			RetryMin:   100 * time.Millisecond,
			RetryMax:   5 * time.Second,
		},
		Server: ServerSettings{
			Port: 8080,
		},
		Log: LogSettings{
			Level:      "info",
			TimeLayout: "2006-01-02 15:04:05",
			Colored:    true,
		},
	}
}

// Load reads settings from path (optional) and the environment on top of
// the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return settings, settings.Validate()
}

// Validate rejects settings that would break the viewport invariants
func (s Settings) Validate() error {
	switch {
	case s.Viewport.MinCandles <= 0:
		return fmt.Errorf("viewport.min_candles must be positive")
	case s.Viewport.MaxCandlesCap < s.Viewport.MinCandles:
		return fmt.Errorf("viewport.max_candles_cap must be >= min_candles")
	case s.Drawing.HitboxWidth <= 0 || s.Drawing.HandleRadius <= 0:
		return fmt.Errorf("drawing hit radii must be positive")
	case s.History.Limit <= 0:
		return fmt.Errorf("history.limit must be positive")
	}

	if _, err := ParseTimeframe(s.Viewport.Timeframe); err != nil {
		return err
	}

	return nil
}

// setDefaults registers every default so env overrides resolve by key
func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("viewport.min_candles", d.Viewport.MinCandles)
	v.SetDefault("viewport.max_candles_factor", d.Viewport.MaxCandlesFactor)
	v.SetDefault("viewport.max_candles_cap", d.Viewport.MaxCandlesCap)
	v.SetDefault("viewport.right_padding_min", d.Viewport.RightPaddingMin)
	v.SetDefault("viewport.default_visible", d.Viewport.DefaultVisible)
	v.SetDefault("viewport.zoom_sensitivity", d.Viewport.ZoomSensitivity)
	v.SetDefault("viewport.axis_drag_sensitivity", d.Viewport.AxisDragSensitivity)
	v.SetDefault("viewport.price_padding", d.Viewport.PricePadding)
	v.SetDefault("viewport.timeframe", d.Viewport.Timeframe)

	v.SetDefault("drawing.handle_radius", d.Drawing.HandleRadius)
	v.SetDefault("drawing.hitbox_width", d.Drawing.HitboxWidth)
	v.SetDefault("drawing.snap_threshold", d.Drawing.SnapThreshold)
	v.SetDefault("drawing.snap_radius", d.Drawing.SnapRadius)
	v.SetDefault("drawing.brush_min_distance", d.Drawing.BrushMinDistance)
	v.SetDefault("drawing.brush_epsilon", d.Drawing.BrushEpsilon)
	v.SetDefault("drawing.position_percent", d.Drawing.PositionPercent)
	v.SetDefault("drawing.position_bars", d.Drawing.PositionBars)

	v.SetDefault("interaction.long_press", d.Interaction.LongPress)
	v.SetDefault("interaction.long_press_tolerance", d.Interaction.LongPressTolerance)

	v.SetDefault("history.limit", d.History.Limit)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.queue_size", d.Storage.QueueSize)
	v.SetDefault("storage.max_retries", d.Storage.MaxRetries)
	v.SetDefault("storage.retry_min", d.Storage.RetryMin)
	v.SetDefault("storage.retry_max", d.Storage.RetryMax)

	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.time_layout", d.Log.TimeLayout)
	v.SetDefault("log.colored", d.Log.Colored)
	v.SetDefault("log.json", d.Log.JSON)
}
