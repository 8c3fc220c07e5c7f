package chart

import (
	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// Persister receives the chart state after every committed mutation.
// Implementations must not block: the session never waits for storage and
// never rolls back on failure.
type Persister interface {
	PersistDrawings(symbol string, drawings drawing.Collection)
	PersistIndicators(symbol string, indicators []indicator.Config)
	PersistAlert(a alert.PriceAlert)
	RemoveAlert(id string)
}

type nopPersister struct{}

func (nopPersister) PersistDrawings(string, drawing.Collection)   {}
func (nopPersister) PersistIndicators(string, []indicator.Config) {}
func (nopPersister) PersistAlert(alert.PriceAlert)                {}
func (nopPersister) RemoveAlert(string)                           {}

func (s *Session) emitDrawings() {
	s.persister.PersistDrawings(s.symbol, s.drawings.Copy())
}

func (s *Session) emitIndicators() {
	s.persister.PersistIndicators(s.symbol, cloneConfigs(s.indicators))
}

func cloneConfigs(configs []indicator.Config) []indicator.Config {
	if configs == nil {
		return nil
	}
	out := make([]indicator.Config, len(configs))
	for i, cfg := range configs {
		out[i] = cfg.Clone()
	}
	return out
}
