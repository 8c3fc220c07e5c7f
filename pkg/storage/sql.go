package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

// DrawingRecord holds the encoded drawings of one symbol
type DrawingRecord struct {
	Symbol    string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

// IndicatorRecord holds the encoded indicator configurations of one symbol
type IndicatorRecord struct {
	Symbol    string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

// AlertRecord holds one encoded alert. Symbol and DrawingID are copied out
// of the payload so lookups can use an index.
type AlertRecord struct {
	ID        string `gorm:"primaryKey"`
	Symbol    string `gorm:"index"`
	DrawingID string `gorm:"index"`
	Payload   string
	CreatedAt time.Time `gorm:"index"`
}

// SQLStorage keeps chart state in a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(&DrawingRecord{}, &IndicatorRecord{}, &AlertRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{
		db: db,
	}, nil
}

// SaveDrawings replaces the drawings stored for symbol
func (s *SQLStorage) SaveDrawings(symbol string, drawings drawing.Collection) error {
	if drawings == nil {
		drawings = drawing.Collection{}
	}
	payload, err := json.Marshal(drawings)
	if err != nil {
		return fmt.Errorf("failed to marshal drawings: %w", err)
	}

	result := s.db.Save(&DrawingRecord{Symbol: symbol, Payload: string(payload)})
	if result.Error != nil {
		return fmt.Errorf("failed to save drawings: %w", result.Error)
	}
	return nil
}

// Drawings returns the drawings stored for symbol, empty when none were saved
func (s *SQLStorage) Drawings(symbol string) (drawing.Collection, error) {
	var record DrawingRecord
	result := s.db.Where("symbol = ?", symbol).Limit(1).Find(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch drawings: %w", result.Error)
	}

	drawings := drawing.Collection{}
	if result.RowsAffected == 0 {
		return drawings, nil
	}
	if err := json.Unmarshal([]byte(record.Payload), &drawings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawings: %w", err)
	}
	return drawings, nil
}

// SaveIndicators replaces the indicator configurations stored for symbol
func (s *SQLStorage) SaveIndicators(symbol string, configs []indicator.Config) error {
	if configs == nil {
		configs = []indicator.Config{}
	}
	payload, err := json.Marshal(configs)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	result := s.db.Save(&IndicatorRecord{Symbol: symbol, Payload: string(payload)})
	if result.Error != nil {
		return fmt.Errorf("failed to save indicators: %w", result.Error)
	}
	return nil
}

// Indicators returns the indicator configurations stored for symbol
func (s *SQLStorage) Indicators(symbol string) ([]indicator.Config, error) {
	var record IndicatorRecord
	result := s.db.Where("symbol = ?", symbol).Limit(1).Find(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch indicators: %w", result.Error)
	}

	configs := []indicator.Config{}
	if result.RowsAffected == 0 {
		return configs, nil
	}
	if err := json.Unmarshal([]byte(record.Payload), &configs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal indicators: %w", err)
	}
	return configs, nil
}

// SaveAlert inserts or replaces an alert
func (s *SQLStorage) SaveAlert(a alert.PriceAlert) error {
	if a.ID == "" {
		return fmt.Errorf("alert id is required")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	result := s.db.Save(&AlertRecord{
		ID:        a.ID,
		Symbol:    a.Symbol,
		DrawingID: a.DrawingID,
		Payload:   string(payload),
		CreatedAt: a.CreatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to save alert: %w", result.Error)
	}
	return nil
}

// DeleteAlert removes an alert, returning ErrNotFound when it does not exist
func (s *SQLStorage) DeleteAlert(id string) error {
	result := s.db.Delete(&AlertRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	return nil
}

// Alerts retrieves alerts in creation order based on provided filters
func (s *SQLStorage) Alerts(filters ...AlertFilter) ([]alert.PriceAlert, error) {
	return s.AlertsWithQuery(func(db *gorm.DB) *gorm.DB { return db }, filters...)
}

// AlertsWithQuery narrows the alert rows with GORM's query builder before the
// in-memory filters run
func (s *SQLStorage) AlertsWithQuery(query func(*gorm.DB) *gorm.DB, filters ...AlertFilter) ([]alert.PriceAlert, error) {
	var records []AlertRecord

	result := query(s.db).Order("created_at, id").Find(&records)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch alerts: %w", result.Error)
	}

	alerts := make([]alert.PriceAlert, 0, len(records))
	for _, record := range records {
		var a alert.PriceAlert
		if err := json.Unmarshal([]byte(record.Payload), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alert %s: %w", record.ID, err)
		}
		alerts = append(alerts, a)
	}

	return lo.Filter(alerts, func(a alert.PriceAlert, _ int) bool {
		return matches(a, filters)
	}), nil
}

// AlertExists reports whether any stored alert targets drawingID
func (s *SQLStorage) AlertExists(ctx context.Context, drawingID string) (bool, error) {
	if drawingID == "" {
		return false, nil
	}

	var count int64
	result := s.db.WithContext(ctx).Model(&AlertRecord{}).Where("drawing_id = ?", drawingID).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to count alerts: %w", result.Error)
	}
	return count > 0, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

// WithTransaction executes the given function within a database transaction
func (s *SQLStorage) WithTransaction(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
