package zerolog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raykavin/chartcore/pkg/logger"
)

// Adapter exposes a zerolog.Logger through logger.Logger. Every With call
// returns a new child, the receiver is never mutated.
type Adapter struct {
	zl zerolog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

// NewAdapter wraps an existing zerolog logger
func NewAdapter(zl zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

// NewNop returns a logger that discards everything
func NewNop() *Adapter {
	return &Adapter{zl: zerolog.Nop()}
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{zl: a.zl.With().Interface(key, value).Logger()}
}

func (a *Adapter) WithFields(fields logger.Fields) logger.Logger {
	return &Adapter{zl: a.zl.With().Fields(fields).Logger()}
}

func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{zl: a.zl.With().Err(err).Logger()}
}

func (a *Adapter) Trace(args ...any) { a.zl.Trace().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Debug(args ...any) { a.zl.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)  { a.zl.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)  { a.zl.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any) { a.zl.Error().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Tracef(format string, args ...any) { a.zl.Trace().Msgf(format, args...) }
func (a *Adapter) Debugf(format string, args ...any) { a.zl.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.zl.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.zl.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.zl.Error().Msgf(format, args...) }
