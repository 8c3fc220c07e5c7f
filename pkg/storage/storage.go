// Package storage persists drawings, indicator configurations and alerts
// per symbol, and feeds committed session state to a backing store without
// blocking the chart.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// ErrNotFound is returned when a keyed record does not exist
var ErrNotFound = errors.New("record not found")

// Store is implemented by every backing store
type Store interface {
	SaveDrawings(symbol string, drawings drawing.Collection) error
	Drawings(symbol string) (drawing.Collection, error)
	SaveIndicators(symbol string, configs []indicator.Config) error
	Indicators(symbol string) ([]indicator.Config, error)
	SaveAlert(a alert.PriceAlert) error
	DeleteAlert(id string) error
	Alerts(filters ...AlertFilter) ([]alert.PriceAlert, error)
	AlertExists(ctx context.Context, drawingID string) (bool, error)
	Close() error
}

// AlertFilter keeps the alerts it returns true for
type AlertFilter func(alert.PriceAlert) bool

// WithSymbol keeps the alerts of one symbol
func WithSymbol(symbol string) AlertFilter {
	return func(a alert.PriceAlert) bool { return a.Symbol == symbol }
}

// WithDrawing keeps the alerts attached to one drawing
func WithDrawing(drawingID string) AlertFilter {
	return func(a alert.PriceAlert) bool { return a.DrawingID == drawingID }
}

// Pending keeps the alerts that have not fired yet
func Pending() AlertFilter {
	return func(a alert.PriceAlert) bool { return !a.Triggered }
}

func matches(a alert.PriceAlert, filters []AlertFilter) bool {
	for _, filter := range filters {
		if !filter(a) {
			return false
		}
	}
	return true
}

// Open creates the store named by the settings driver
func Open(settings config.StorageSettings) (Store, error) {
	switch strings.ToLower(settings.Driver) {
	case "", "bunt", "buntdb":
		return NewBuntStorage(settings.Path)
	case "sqlite":
		path := settings.Path
		if path == ":memory:" {
			path = "file::memory:?cache=shared"
		}
		return FromSQL(sqlite.Open(path))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", settings.Driver)
	}
}

// Load restores the persisted drawings, indicators and alerts of the
// session symbol. Navigation state is left as it is.
func Load(store Store, session *chart.Session) error {
	drawings, err := store.Drawings(session.Symbol())
	if err != nil {
		return fmt.Errorf("failed to load drawings: %w", err)
	}

	configs, err := store.Indicators(session.Symbol())
	if err != nil {
		return fmt.Errorf("failed to load indicators: %w", err)
	}

	alerts, err := store.Alerts(WithSymbol(session.Symbol()))
	if err != nil {
		return fmt.Errorf("failed to load alerts: %w", err)
	}

	snap := session.Snapshot()
	snap.Drawings = drawings
	snap.Indicators = configs
	session.Restore(snap)
	session.LoadAlerts(alerts)
	return nil
}
