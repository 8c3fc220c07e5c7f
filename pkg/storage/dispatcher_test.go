package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
)

var errUnavailable = errors.New("unavailable")

// flakyStore wraps a BuntStorage and fails the first drawing writes
type flakyStore struct {
	*BuntStorage

	mu       sync.Mutex
	failures int
	attempts int
	started  chan struct{}
	release  chan struct{}
}

func (f *flakyStore) SaveDrawings(symbol string, drawings drawing.Collection) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	f.attempts++
	fail := f.attempts <= f.failures
	f.mu.Unlock()

	if fail {
		return errUnavailable
	}
	return f.BuntStorage.SaveDrawings(symbol, drawings)
}

func (f *flakyStore) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func newFlaky(t *testing.T, failures int) *flakyStore {
	t.Helper()
	bunt, err := FromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { bunt.Close() })
	return &flakyStore{BuntStorage: bunt, failures: failures}
}

type sleeps struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleeps) sleep(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
}

func TestDispatcher_RetriesFailedWrites(t *testing.T) {
	store := newFlaky(t, 2)
	waits := &sleeps{}
	d := NewDispatcher(store, config.Default().Storage, nil, WithSleep(waits.sleep))

	d.PersistDrawings("BTCUSDT", sampleDrawings())
	d.Close()

	assert.Equal(t, 3, store.Attempts())
	assert.Len(t, waits.waits, 2)

	got, err := store.Drawings("BTCUSDT")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDispatcher_GivesUp(t *testing.T) {
	store := newFlaky(t, 100)
	waits := &sleeps{}
	settings := config.Default().Storage
	settings.MaxRetries = 2
	d := NewDispatcher(store, settings, nil, WithSleep(waits.sleep))

	d.PersistDrawings("BTCUSDT", sampleDrawings())
	d.PersistAlert(sampleAlert("a", "h", 1))
	d.Close()

	assert.Equal(t, 3, store.Attempts())
	assert.Len(t, waits.waits, 2)

	// later writes are unaffected by the failed one
	alerts, err := store.Alerts()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestDispatcher_NeverBlocks(t *testing.T) {
	store := newFlaky(t, 0)
	store.started = make(chan struct{})
	store.release = make(chan struct{})

	settings := config.Default().Storage
	settings.QueueSize = 1
	d := NewDispatcher(store, settings, nil, WithSleep(func(time.Duration) {}))

	d.PersistDrawings("BTCUSDT", sampleDrawings())
	<-store.started

	done := make(chan struct{})
	go func() {
		d.PersistDrawings("BTCUSDT", sampleDrawings()[:1]) // queued
		d.PersistDrawings("BTCUSDT", sampleDrawings()[:2]) // dropped
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a busy worker")
	}

	store.release <- struct{}{}
	<-store.started
	store.release <- struct{}{}
	d.Close()

	assert.Equal(t, 2, store.Attempts())
	got, err := store.Drawings("BTCUSDT")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	store := newFlaky(t, 0)
	d := NewDispatcher(store, config.Default().Storage, nil)

	d.Close()
	d.Close()
	d.RemoveAlert("missing")
	assert.Equal(t, 0, store.Attempts())
}

func candles(n int) []core.Candle {
	out := make([]core.Candle, n)
	for i := range out {
		price := 100 + float64(i)
		out[i] = core.Candle{Time: pt(i, 0).Time, Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return out
}

func TestDispatcher_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := FromMemory()
	require.NoError(t, err)
	defer store.Close()

	d := NewDispatcher(store, config.Default().Storage, nil)
	session := chart.New("BTCUSDT", config.Default(), nil,
		chart.WithPersister(d),
		chart.WithAlertChecker(store),
		chart.WithSize(1000, 400),
	)
	session.SetCandles(candles(50))

	session.AddDrawing(drawing.New("t", drawing.Line{Variant: drawing.KindTrendLine, Start: pt(0, 100), End: pt(10, 110)}, drawing.DefaultStyle))
	session.AddDrawing(drawing.New("h", drawing.HorizontalLine{Price: 130}, drawing.DefaultStyle))
	sma, err := indicator.NewConfig("", indicator.TypeSMA, "#ff0000")
	require.NoError(t, err)
	_, err = session.AddIndicator(sma)
	require.NoError(t, err)
	_, err = session.CreateAlert(ctx, alert.PriceAlert{ID: "a1", DrawingID: "t", Condition: alert.Crossing})
	require.NoError(t, err)
	_, err = session.CreateAlert(ctx, alert.PriceAlert{ID: "a2", DrawingID: "h", Condition: alert.Crossing})
	require.NoError(t, err)
	require.True(t, session.DeleteDrawing("h"))
	d.Close()

	restored := chart.New("BTCUSDT", config.Default(), nil, chart.WithSize(1000, 400))
	restored.SetCandles(candles(50))
	require.NoError(t, Load(store, restored))

	assert.Equal(t, session.Drawings(), restored.Drawings())
	assert.Equal(t, session.Indicators(), restored.Indicators())
	require.Len(t, restored.Alerts(), 1)
	assert.Equal(t, "a1", restored.Alerts()[0].ID)
	assert.Len(t, restored.ComputedIndicators(), 1)

	undo, _ := restored.History().Len()
	assert.Zero(t, undo)
}
