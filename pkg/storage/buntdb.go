package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

const (
	drawingsPrefix   = "drawings:"
	indicatorsPrefix = "indicators:"
	alertPrefix      = "alert:"
	alertIndex       = "alerts_created"
)

// BuntStorage keeps chart state in a BuntDB key/value store
type BuntStorage struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(alertIndex, alertPrefix+"*", buntdb.IndexJSON("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{
		db: db,
	}, nil
}

func (b *BuntStorage) set(key string, value any) error {
	content, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		return nil
	})
}

// get decodes key into value and reports whether it existed
func (b *BuntStorage) get(key string, value any) (bool, error) {
	var content string
	err := b.db.View(func(tx *buntdb.Tx) error {
		var err error
		content, err = tx.Get(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(content), value); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// SaveDrawings replaces the drawings stored for symbol
func (b *BuntStorage) SaveDrawings(symbol string, drawings drawing.Collection) error {
	if drawings == nil {
		drawings = drawing.Collection{}
	}
	return b.set(drawingsPrefix+symbol, drawings)
}

// Drawings returns the drawings stored for symbol, empty when none were saved
func (b *BuntStorage) Drawings(symbol string) (drawing.Collection, error) {
	drawings := drawing.Collection{}
	if _, err := b.get(drawingsPrefix+symbol, &drawings); err != nil {
		return nil, err
	}
	return drawings, nil
}

// SaveIndicators replaces the indicator configurations stored for symbol
func (b *BuntStorage) SaveIndicators(symbol string, configs []indicator.Config) error {
	if configs == nil {
		configs = []indicator.Config{}
	}
	return b.set(indicatorsPrefix+symbol, configs)
}

// Indicators returns the indicator configurations stored for symbol
func (b *BuntStorage) Indicators(symbol string) ([]indicator.Config, error) {
	configs := []indicator.Config{}
	if _, err := b.get(indicatorsPrefix+symbol, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// SaveAlert inserts or replaces an alert
func (b *BuntStorage) SaveAlert(a alert.PriceAlert) error {
	if a.ID == "" {
		return fmt.Errorf("alert id is required")
	}
	return b.set(alertPrefix+a.ID, a)
}

// DeleteAlert removes an alert, returning ErrNotFound when it does not exist
func (b *BuntStorage) DeleteAlert(id string) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(alertPrefix + id)
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("alert %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to delete alert: %w", err)
		}
		return nil
	})
}

// Alerts retrieves alerts in creation order based on provided filters
func (b *BuntStorage) Alerts(filters ...AlertFilter) ([]alert.PriceAlert, error) {
	alerts := make([]alert.PriceAlert, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Ascend(alertIndex, func(key, value string) bool {
			var a alert.PriceAlert
			if err := json.Unmarshal([]byte(value), &a); err != nil {
				decodeErr = fmt.Errorf("failed to unmarshal %s: %w", key, err)
				return false
			}

			if matches(a, filters) {
				alerts = append(alerts, a)
			}
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over alerts: %w", err)
		}
		return decodeErr
	})

	if err != nil {
		return nil, err
	}

	return alerts, nil
}

// AlertExists reports whether any stored alert targets drawingID
func (b *BuntStorage) AlertExists(ctx context.Context, drawingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if drawingID == "" {
		return false, nil
	}

	alerts, err := b.Alerts(WithDrawing(drawingID))
	if err != nil {
		return false, err
	}
	return len(alerts) > 0, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
