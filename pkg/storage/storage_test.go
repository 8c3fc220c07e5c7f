package storage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

const start = int64(1_700_000_000)

func pt(i int, price float64) core.Point {
	return core.Point{Time: start + int64(i)*3600, Price: price}
}

// memoryDSN names a shared-cache in-memory database so every pooled
// connection sees the same tables
func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	bunt, err := FromMemory()
	require.NoError(t, err)

	sql, err := FromSQL(sqlite.Open(memoryDSN(t)))
	require.NoError(t, err)

	t.Cleanup(func() {
		bunt.Close()
		sql.Close()
	})
	return map[string]Store{"buntdb": bunt, "sqlite": sql}
}

func sampleDrawings() drawing.Collection {
	return drawing.Collection{
		drawing.New("h", drawing.HorizontalLine{Price: 150}, drawing.DefaultStyle),
		drawing.New("t", drawing.Line{Variant: drawing.KindTrendLine, Start: pt(0, 100), End: pt(10, 110)}, drawing.DefaultStyle),
		drawing.New("n", drawing.TextNote{At: pt(3, 120), Text: "entry"}, drawing.DefaultStyle),
	}
}

func sampleAlert(id, drawingID string, minute int) alert.PriceAlert {
	return alert.PriceAlert{
		ID:               id,
		Symbol:           "BTCUSDT",
		DrawingID:        drawingID,
		Condition:        alert.Crossing,
		Message:          "cross " + id,
		TriggerFrequency: alert.OnlyOnce,
		CreatedAt:        time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
	}
}

func TestStore_Drawings(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := store.Drawings("BTCUSDT")
			require.NoError(t, err)
			assert.Empty(t, empty)

			require.NoError(t, store.SaveDrawings("BTCUSDT", sampleDrawings()))
			require.NoError(t, store.SaveDrawings("ETHUSDT", sampleDrawings()[:1]))

			got, err := store.Drawings("BTCUSDT")
			require.NoError(t, err)
			assert.Equal(t, sampleDrawings(), got)

			// a second save replaces the first
			require.NoError(t, store.SaveDrawings("BTCUSDT", sampleDrawings().Delete("t")))
			got, err = store.Drawings("BTCUSDT")
			require.NoError(t, err)
			assert.Len(t, got, 2)
			assert.False(t, got.Has("t"))

			other, err := store.Drawings("ETHUSDT")
			require.NoError(t, err)
			assert.Len(t, other, 1)
		})
	}
}

func TestStore_Indicators(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sma, err := indicator.NewConfig("sma", indicator.TypeSMA, "#ff0000")
			require.NoError(t, err)
			sma.Settings["period"] = 9

			require.NoError(t, store.SaveIndicators("BTCUSDT", []indicator.Config{sma}))

			got, err := store.Indicators("BTCUSDT")
			require.NoError(t, err)
			assert.Equal(t, []indicator.Config{sma}, got)

			none, err := store.Indicators("ETHUSDT")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStore_Alerts(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			value := sampleAlert("v", "", 3)
			value.Value = alert.Float(101.5)
			eth := sampleAlert("e", "x", 4)
			eth.Symbol = "ETHUSDT"

			require.NoError(t, store.SaveAlert(sampleAlert("b", "t", 2)))
			require.NoError(t, store.SaveAlert(sampleAlert("a", "h", 1)))
			require.NoError(t, store.SaveAlert(value))
			require.NoError(t, store.SaveAlert(eth))
			require.Error(t, store.SaveAlert(alert.PriceAlert{}))

			all, err := store.Alerts()
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, []string{"a", "b", "v", "e"}, []string{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
			assert.Equal(t, value, all[2])

			btc, err := store.Alerts(WithSymbol("BTCUSDT"))
			require.NoError(t, err)
			assert.Len(t, btc, 3)

			triggered := sampleAlert("b", "t", 2)
			triggered.Triggered = true
			require.NoError(t, store.SaveAlert(triggered))
			pending, err := store.Alerts(WithSymbol("BTCUSDT"), Pending())
			require.NoError(t, err)
			assert.Len(t, pending, 2)

			exists, err := store.AlertExists(ctx, "t")
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = store.AlertExists(ctx, "")
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, store.DeleteAlert("b"))
			assert.ErrorIs(t, store.DeleteAlert("b"), ErrNotFound)

			exists, err = store.AlertExists(ctx, "t")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestSQLStorage_Transaction(t *testing.T) {
	store, err := FromSQL(sqlite.Open(memoryDSN(t)))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveAlert(sampleAlert("a", "h", 1)))
	require.NoError(t, store.SaveAlert(sampleAlert("b", "t", 2)))

	err = store.WithTransaction(func(tx *gorm.DB) error {
		return tx.Where("drawing_id = ?", "h").Delete(&AlertRecord{}).Error
	})
	require.NoError(t, err)

	left, err := store.AlertsWithQuery(func(db *gorm.DB) *gorm.DB {
		return db.Where("symbol = ?", "BTCUSDT")
	})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].ID)
}

func TestOpen(t *testing.T) {
	settings := config.Default().Storage

	store, err := Open(settings)
	require.NoError(t, err)
	assert.IsType(t, &BuntStorage{}, store)
	require.NoError(t, store.Close())

	settings.Driver = "sqlite"
	store, err = Open(settings)
	require.NoError(t, err)
	assert.IsType(t, &SQLStorage{}, store)
	require.NoError(t, store.Close())

	settings.Driver = "mongo"
	_, err = Open(settings)
	assert.Error(t, err)
}
