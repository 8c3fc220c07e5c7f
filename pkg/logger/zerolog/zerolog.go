// Package zerolog backs logger.Logger with zerolog, either as JSON lines or
// as a fixed-width console layout colored with goterm.
package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/raykavin/chartcore/pkg/config"
)

const (
	messageWidth = 72
	fileWidth    = 16
	lineWidth    = 4
)

// callerSkip points the caller field past the Adapter method
const callerSkip = 3

type badge struct {
	tag   string
	color func(string, ...interface{}) string
}

var levelBadges = map[string]badge{
	zerolog.LevelTraceValue: {"TRC", term.Bluef},
	zerolog.LevelDebugValue: {"DBG", term.Cyanf},
	zerolog.LevelInfoValue:  {"INF", term.Greenf},
	zerolog.LevelWarnValue:  {"WRN", term.Yellowf},
	zerolog.LevelErrorValue: {"ERR", term.Redf},
	zerolog.LevelFatalValue: {"FTL", term.Redf},
	zerolog.LevelPanicValue: {"PNC", term.Redf},
}

// New builds the process logger from the log settings. Output goes to w,
// or stdout when w is nil.
func New(cfg config.LogSettings, w io.Writer) (*Adapter, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if w == nil {
		w = os.Stdout
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if cfg.JSON {
		return NewAdapter(zerolog.New(w).Level(level).With().Timestamp().Logger()), nil
	}

	console := zerolog.ConsoleWriter{
		Out:             w,
		NoColor:         !cfg.Colored,
		TimeFormat:      cfg.TimeLayout,
		FormatLevel:     formatLevel,
		FormatMessage:   formatMessage,
		FormatCaller:    formatCaller,
		FormatTimestamp: func(i interface{}) string { return formatTimestamp(i, cfg.TimeLayout) },
	}

	zl := zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(callerSkip).
		Logger()

	return NewAdapter(zl), nil
}

func formatLevel(i interface{}) string {
	level, ok := i.(string)
	if !ok {
		return "UNKNOWN"
	}
	b, ok := levelBadges[level]
	if !ok {
		return term.Whitef("[???]")
	}
	return b.color("[%s]", b.tag)
}

// formatMessage pads or cuts the message so fields line up in a column
func formatMessage(i interface{}) string {
	msg, _ := i.(string)
	if msg == "" {
		return ">"
	}
	if len(msg) > messageWidth {
		msg = msg[:messageWidth]
	}
	return term.Whitef("> %-*s", messageWidth, msg)
}

// formatCaller renders file:line as a fixed width column
func formatCaller(i interface{}) string {
	name, _ := i.(string)
	if name == "" {
		return ""
	}

	file, line, ok := strings.Cut(filepath.Base(name), ":")
	if !ok {
		return filepath.Base(name)
	}
	if len(file) > fileWidth {
		file = file[:fileWidth]
	}
	if len(line) > lineWidth {
		line = line[len(line)-lineWidth:]
	}

	return term.Yellowf("[%-*s:%*s]", fileWidth, file, lineWidth, line)
}

func formatTimestamp(i interface{}, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		raw = ts.Local().Format(layout)
	}
	return term.Cyanf("[%s]", raw)
}
