package chart

import (
	"context"
	"fmt"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

// ResolvedAlert is an alert with the price it currently resolves to
type ResolvedAlert struct {
	Alert alert.PriceAlert `json:"alert"`
	Price float64          `json:"price"`
}

// Alerts returns every alert of the session
func (s *Session) Alerts() []alert.PriceAlert { return s.alerts.All() }

// Alert returns one alert
func (s *Session) Alert(id string) (alert.PriceAlert, bool) { return s.alerts.Get(id) }

// Resolver returns an alert resolver bound to the session state
func (s *Session) Resolver() alert.Resolver {
	return alert.Resolver{Drawings: s.drawings, Indicators: s}
}

// CreateAlert validates and stores a new alert. Drawing alerts need an
// existing drawing of a kind that resolves to a price.
func (s *Session) CreateAlert(ctx context.Context, a alert.PriceAlert) (alert.PriceAlert, error) {
	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.Symbol == "" {
		a.Symbol = s.symbol
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if a.TriggerFrequency == "" {
		a.TriggerFrequency = alert.OnlyOnce
	}

	if a.DrawingID != "" {
		d, ok := s.drawings.Get(a.DrawingID)
		if !ok {
			return alert.PriceAlert{}, core.NewError(core.CodeNotFound, fmt.Sprintf("drawing %s", a.DrawingID), nil)
		}
		if !alert.Supported(d) {
			return alert.PriceAlert{}, core.NewError(core.CodeUnresolvable, fmt.Sprintf("alerts are not available for %s", d.Kind()), nil)
		}
	}

	if err := s.alerts.Create(ctx, a); err != nil {
		s.log.WithError(err).WithField("alert", a.ID).Info("alert rejected")
		return alert.PriceAlert{}, err
	}

	s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryCreated, Message: a.Message})
	s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryActivated})
	s.persister.PersistAlert(a)
	return a, nil
}

// DeleteAlert removes an alert closed by the user
func (s *Session) DeleteAlert(id string) bool {
	if !s.alerts.Delete(id) {
		return false
	}
	s.alertLog.Record(alert.Entry{AlertID: id, Type: alert.EntryClosedByUser})
	s.persister.RemoveAlert(id)
	return true
}

// MoveAlertValue changes the price of a value-only alert
func (s *Session) MoveAlertValue(id string, price float64) bool {
	a, ok := s.alerts.Get(id)
	if !ok || !a.ValueOnly() {
		return false
	}
	a.Value = alert.Float(price)
	a.Triggered = false
	if err := s.alerts.Update(a); err != nil {
		return false
	}
	s.persister.PersistAlert(a)
	return true
}

// MarkTriggered records that the external trigger engine fired an alert
func (s *Session) MarkTriggered(id string, price float64) error {
	if err := s.alerts.MarkTriggered(id, s.now()); err != nil {
		return err
	}
	s.alertLog.Record(alert.Entry{AlertID: id, Type: alert.EntryTriggered, Price: price})
	if a, ok := s.alerts.Get(id); ok {
		s.persister.PersistAlert(a)
	}
	return nil
}

// ActiveAlerts resolves every alert. Drawing alerts are priced at their
// drawing's anchor time; override replaces the stored geometry of a drawing
// being dragged. Alerts that do not resolve are skipped.
func (s *Session) ActiveAlerts(override *drawing.Drawing) []ResolvedAlert {
	resolver := s.Resolver()
	var out []ResolvedAlert
	for _, a := range s.alerts.All() {
		price, err := resolver.Resolve(a, override)
		if err != nil {
			s.log.WithError(err).WithField("alert", a.ID).Debug("alert not resolved")
			continue
		}
		out = append(out, ResolvedAlert{Alert: a, Price: price})
	}
	return out
}

// closeOrphanAlerts drops alerts whose drawing or indicator is gone after a
// history step. Alerts are not part of snapshots, so redo does not bring
// them back.
func (s *Session) closeOrphanAlerts() {
	for _, a := range s.alerts.All() {
		switch {
		case a.DrawingID != "" && !s.drawings.Has(a.DrawingID):
			s.alerts.Delete(a.ID)
			s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryClosedDeleted})
		case a.IndicatorID != "" && !s.hasIndicator(a.IndicatorID):
			s.alerts.Delete(a.ID)
			s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryClosed, Message: "indicator removed"})
		default:
			continue
		}
		s.persister.RemoveAlert(a.ID)
	}
}

// LoadAlerts replaces the alerts with persisted ones
func (s *Session) LoadAlerts(alerts []alert.PriceAlert) {
	s.alerts.Load(alerts)
}
