package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/logger"
)

// ExistenceChecker asks an external alert service whether a drawing already
// carries an alert
type ExistenceChecker interface {
	AlertExists(ctx context.Context, drawingID string) (bool, error)
}

// Store holds the alerts of one chart session and enforces one alert per
// drawing
type Store struct {
	alerts  []PriceAlert
	checker ExistenceChecker
	log     logger.Logger
}

// NewStore creates an empty store. checker may be nil.
func NewStore(log logger.Logger, checker ExistenceChecker) *Store {
	return &Store{log: log, checker: checker}
}

// Create adds an alert. A second alert for the same drawing is rejected
// with core.ErrDuplicateAlert and leaves the store unchanged. When the
// external lookup fails the alert is accepted.
func (s *Store) Create(ctx context.Context, a PriceAlert) error {
	if a.ID == "" {
		return core.NewError(core.CodeValidation, "alert id is required", nil)
	}
	if s.has(a.ID) {
		return core.NewError(core.CodeValidation, fmt.Sprintf("alert %s already exists", a.ID), nil)
	}

	if a.DrawingID != "" {
		if _, ok := s.ByDrawing(a.DrawingID); ok {
			return core.NewError(core.CodeDuplicateAlert, fmt.Sprintf("drawing %s already has an alert", a.DrawingID), nil)
		}

		if s.checker != nil {
			exists, err := s.checker.AlertExists(ctx, a.DrawingID)
			switch {
			case err != nil:
				s.log.WithError(err).WithField("drawing", a.DrawingID).Warn("alert lookup failed, accepting alert")
			case exists:
				return core.NewError(core.CodeDuplicateAlert, fmt.Sprintf("drawing %s already has an alert", a.DrawingID), nil)
			}
		}
	}

	s.alerts = append(s.alerts, a.Clone())
	return nil
}

// Load replaces the content of the store, skipping duplicated drawings
func (s *Store) Load(alerts []PriceAlert) {
	s.alerts = nil
	for _, a := range alerts {
		if a.DrawingID != "" {
			if _, ok := s.ByDrawing(a.DrawingID); ok {
				s.log.WithField("alert", a.ID).Warn("skipping duplicated drawing alert")
				continue
			}
		}
		s.alerts = append(s.alerts, a.Clone())
	}
}

// Get returns an alert by id
func (s *Store) Get(id string) (PriceAlert, bool) {
	a, ok := lo.Find(s.alerts, func(a PriceAlert) bool { return a.ID == id })
	return a.Clone(), ok
}

// ByDrawing returns the alert attached to a drawing
func (s *Store) ByDrawing(drawingID string) (PriceAlert, bool) {
	a, ok := lo.Find(s.alerts, func(a PriceAlert) bool { return a.DrawingID == drawingID })
	return a.Clone(), ok
}

// All returns a copy of every alert in creation order
func (s *Store) All() []PriceAlert {
	return lo.Map(s.alerts, func(a PriceAlert, _ int) PriceAlert { return a.Clone() })
}

// Len returns the number of alerts
func (s *Store) Len() int { return len(s.alerts) }

// Update replaces an existing alert. The drawing link may not move onto a
// drawing that already has another alert.
func (s *Store) Update(a PriceAlert) error {
	_, index, ok := lo.FindIndexOf(s.alerts, func(x PriceAlert) bool { return x.ID == a.ID })
	if !ok {
		return core.NewError(core.CodeNotFound, fmt.Sprintf("alert %s", a.ID), nil)
	}
	if a.DrawingID != "" {
		if other, ok := s.ByDrawing(a.DrawingID); ok && other.ID != a.ID {
			return core.NewError(core.CodeDuplicateAlert, fmt.Sprintf("drawing %s already has an alert", a.DrawingID), nil)
		}
	}
	s.alerts[index] = a.Clone()
	return nil
}

// MarkTriggered flags an alert as fired at the given time
func (s *Store) MarkTriggered(id string, at time.Time) error {
	a, ok := s.Get(id)
	if !ok {
		return core.NewError(core.CodeNotFound, fmt.Sprintf("alert %s", id), nil)
	}
	a.Triggered = true
	a.LastTriggeredAt = &at
	return s.Update(a)
}

// Delete removes an alert and reports whether it existed
func (s *Store) Delete(id string) bool {
	before := len(s.alerts)
	s.alerts = lo.Filter(s.alerts, func(a PriceAlert, _ int) bool { return a.ID != id })
	return len(s.alerts) != before
}

// DeleteByDrawing removes the alerts referencing a drawing and returns them
func (s *Store) DeleteByDrawing(drawingID string) []PriceAlert {
	if drawingID == "" {
		return nil
	}
	removed := lo.Filter(s.alerts, func(a PriceAlert, _ int) bool { return a.DrawingID == drawingID })
	s.alerts = lo.Filter(s.alerts, func(a PriceAlert, _ int) bool { return a.DrawingID != drawingID })
	return removed
}

func (s *Store) has(id string) bool {
	return lo.ContainsBy(s.alerts, func(a PriceAlert) bool { return a.ID == id })
}
