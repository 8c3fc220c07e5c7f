package chart

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// AddIndicator commits and adds an indicator instance
func (s *Session) AddIndicator(cfg indicator.Config) (indicator.Config, error) {
	if _, ok := indicator.Lookup(cfg.Type); !ok {
		return indicator.Config{}, core.NewError(core.CodeValidation, fmt.Sprintf("unknown indicator type %q", cfg.Type), nil)
	}
	if cfg.ID == "" {
		cfg.ID = s.newID()
	}

	s.Commit()
	s.indicators = append(s.indicators, cfg.Clone())
	s.computeIndicator(cfg)
	s.emitIndicators()
	return cfg, nil
}

// UpdateIndicator commits and replaces the settings of an instance
func (s *Session) UpdateIndicator(cfg indicator.Config) bool {
	_, index, ok := lo.FindIndexOf(s.indicators, func(c indicator.Config) bool { return c.ID == cfg.ID })
	if !ok {
		return false
	}
	s.Commit()
	s.indicators[index] = cfg.Clone()
	s.computeIndicator(cfg)
	s.emitIndicators()
	return true
}

// ToggleIndicator commits and shows or hides an instance
func (s *Session) ToggleIndicator(id string) bool {
	cfg, ok := lo.Find(s.indicators, func(c indicator.Config) bool { return c.ID == id })
	if !ok {
		return false
	}
	cfg.Visible = !cfg.Visible
	return s.UpdateIndicator(cfg)
}

// RemoveIndicator commits, removes an instance and deletes its alerts
func (s *Session) RemoveIndicator(id string) bool {
	if !s.hasIndicator(id) {
		return false
	}
	s.Commit()
	s.indicators = lo.Filter(s.indicators, func(c indicator.Config, _ int) bool { return c.ID != id })
	delete(s.computed, id)

	for _, a := range s.alerts.All() {
		if a.IndicatorID != id {
			continue
		}
		s.alerts.Delete(a.ID)
		s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryClosed, Message: "indicator removed"})
		s.persister.RemoveAlert(a.ID)
	}

	s.emitIndicators()
	return true
}

func (s *Session) hasIndicator(id string) bool {
	return lo.ContainsBy(s.indicators, func(c indicator.Config) bool { return c.ID == id })
}

// Indicator returns a copy of the computed series of an instance
func (s *Session) Indicator(id string) (core.ChartIndicator, bool) {
	ind, ok := s.computed[id]
	if !ok {
		return core.ChartIndicator{}, false
	}
	return ind.Clone(), true
}

// ComputedIndicators returns the computed series in configuration order
func (s *Session) ComputedIndicators() []core.ChartIndicator {
	out := make([]core.ChartIndicator, 0, len(s.indicators))
	for _, cfg := range s.indicators {
		if ind, ok := s.computed[cfg.ID]; ok {
			out = append(out, ind.Clone())
		}
	}
	return out
}

func (s *Session) recomputeIndicators() {
	s.computed = make(map[string]core.ChartIndicator, len(s.indicators))
	for _, cfg := range s.indicators {
		s.computeIndicator(cfg)
	}
}

func (s *Session) computeIndicator(cfg indicator.Config) {
	ind, err := indicator.Compute(cfg, s.viewport.Candles())
	if err != nil {
		s.log.WithError(err).WithField("indicator", cfg.ID).Warn("indicator skipped")
		delete(s.computed, cfg.ID)
		return
	}
	s.computed[cfg.ID] = ind
}
