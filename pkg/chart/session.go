// Package chart holds the chart session: the single owner of candles,
// viewport, drawings, indicators, alerts and undo history. Every mutation
// is committed to history first and then handed to the persister.
package chart

import (
	"time"

	"github.com/google/uuid"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/history"
	"github.com/raykavin/chartcore/pkg/indicator"
	"github.com/raykavin/chartcore/pkg/logger"
	"github.com/raykavin/chartcore/pkg/logger/zerolog"
	"github.com/raykavin/chartcore/pkg/viewport"
)

// Session is the state of one chart. It is not safe for concurrent use;
// callers serialize events onto it.
type Session struct {
	symbol   string
	settings config.Settings
	log      logger.Logger

	viewport   *viewport.Model
	drawings   drawing.Collection
	indicators []indicator.Config
	computed   map[string]core.ChartIndicator
	chartType  core.ChartType
	autoScale  bool
	selected   string

	history   *history.Manager
	alerts    *alert.Store
	alertLog  *alert.Log
	snapper   *drawing.Snapper
	persister Persister
	checker   alert.ExistenceChecker

	newID func() string
	now   func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithPersister sets the persistence collaborator
func WithPersister(p Persister) Option {
	return func(s *Session) {
		s.persister = p
	}
}

// WithAlertChecker sets the external alert existence lookup
func WithAlertChecker(checker alert.ExistenceChecker) Option {
	return func(s *Session) {
		s.checker = checker
	}
}

// WithIDGenerator replaces the uuid generator used for new ids
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithSize sets the chart area size in pixels
func WithSize(width, height float64) Option {
	return func(s *Session) {
		s.viewport.Resize(width, height)
	}
}

// New creates a session for one symbol
func New(symbol string, settings config.Settings, log logger.Logger, options ...Option) *Session {
	s := &Session{
		symbol:    symbol,
		settings:  settings,
		log:       log,
		viewport:  viewport.New(settings.Viewport, 800, 600),
		computed:  make(map[string]core.ChartIndicator),
		chartType: core.ChartCandles,
		autoScale: true,
		history:   history.New(settings.History.Limit),
		alertLog:  alert.NewLog(),
		snapper:   drawing.NewSnapper(settings.Drawing.SnapRadius, settings.Drawing.SnapThreshold),
		persister: nopPersister{},
		newID:     uuid.NewString,
		now:       time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.log == nil {
		s.log = zerolog.NewNop()
	}
	s.alerts = alert.NewStore(s.log, s.checker)
	return s
}

func (s *Session) Symbol() string                 { return s.symbol }
func (s *Session) Settings() config.Settings      { return s.settings }
func (s *Session) Viewport() *viewport.Model      { return s.viewport }
func (s *Session) Drawings() drawing.Collection   { return s.drawings }
func (s *Session) ChartType() core.ChartType      { return s.chartType }
func (s *Session) AutoScale() bool                { return s.autoScale }
func (s *Session) Snapper() *drawing.Snapper      { return s.snapper }
func (s *Session) History() *history.Manager      { return s.history }
func (s *Session) AlertLog() *alert.Log           { return s.alertLog }
func (s *Session) Logger() logger.Logger          { return s.log }
func (s *Session) Candles() []core.Candle         { return s.viewport.Candles() }
func (s *Session) Indicators() []indicator.Config { return cloneConfigs(s.indicators) }

// NewID returns a fresh identifier
func (s *Session) NewID() string { return s.newID() }

// Drawing returns a drawing by id
func (s *Session) Drawing(id string) (drawing.Drawing, bool) { return s.drawings.Get(id) }

// Tolerance returns the pixel tolerances used for hit-testing
func (s *Session) Tolerance() drawing.Tolerance {
	return drawing.Tolerance{
		HandleRadius: s.settings.Drawing.HandleRadius,
		HitboxWidth:  s.settings.Drawing.HitboxWidth,
	}
}

// SetCandles replaces the candle series. On the first load the view falls
// back to the default window.
func (s *Session) SetCandles(candles []core.Candle) {
	first := s.viewport.Len() == 0
	s.viewport.SetCandles(candles)
	if first {
		s.viewport.SetView(s.viewport.DefaultView())
	}
	s.recomputeIndicators()
	s.Autoscale()
}

// AppendCandle adds a new candle, or replaces the last one when it shares
// its time. A view showing the latest candle keeps following it.
func (s *Session) AppendCandle(c core.Candle) {
	candles := s.viewport.Candles()
	n := len(candles)
	if n > 0 && candles[n-1].Time == c.Time {
		next := append([]core.Candle(nil), candles...)
		next[n-1] = c
		s.viewport.SetCandles(next)
		s.recomputeIndicators()
		s.Autoscale()
		return
	}

	view := s.viewport.View()
	following := n > 0 && float64(n-1) < view.EndIndex()
	next := make([]core.Candle, 0, n+1)
	next = append(append(next, candles...), c)
	s.viewport.SetCandles(next)
	if following {
		view.StartIndex++
		s.viewport.SetView(view)
	}
	s.recomputeIndicators()
	s.Autoscale()
}

// Snapshot returns a deep copy of the undoable state
func (s *Session) Snapshot() history.Snapshot {
	return history.Snapshot{
		Drawings:   s.drawings.Copy(),
		Indicators: cloneConfigs(s.indicators),
		View:       s.viewport.View(),
		PriceRange: s.viewport.PriceRange(),
		AutoScale:  s.autoScale,
		ChartType:  s.chartType,
	}
}

// Commit records the current state on the undo stack. It must be called
// right before any mutation the user can undo.
func (s *Session) Commit() {
	s.history.Commit(s.Snapshot())
}

// Apply replaces every undoable field at once
func (s *Session) Apply(snap history.Snapshot) {
	snap = snap.Clone()
	s.drawings = snap.Drawings
	s.indicators = snap.Indicators
	s.viewport.SetView(s.viewport.ValidateView(snap.View))
	s.viewport.SetPriceRange(snap.PriceRange)
	s.autoScale = snap.AutoScale
	s.chartType = snap.ChartType

	if s.selected != "" && !s.drawings.Has(s.selected) {
		s.selected = ""
	}
	s.recomputeIndicators()
	s.closeOrphanAlerts()
	s.emitDrawings()
	s.emitIndicators()
}

// Restore loads persisted state without touching history. An invalid view
// falls back to the default window.
func (s *Session) Restore(snap history.Snapshot) {
	snap = snap.Clone()
	s.drawings = snap.Drawings
	s.indicators = snap.Indicators
	if snap.ChartType.Valid() {
		s.chartType = snap.ChartType
	}
	s.autoScale = snap.AutoScale
	s.viewport.SetView(s.viewport.ValidateView(snap.View))
	if snap.PriceRange.IsFinite() && snap.PriceRange.Span() > 0 {
		s.viewport.SetPriceRange(snap.PriceRange)
	}
	s.recomputeIndicators()
	s.Autoscale()
}

// Undo applies the previous state and reports whether there was one
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo(s.Snapshot())
	if !ok {
		return false
	}
	s.Apply(snap)
	s.log.Debug("undo")
	return true
}

// Redo reapplies an undone state
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo(s.Snapshot())
	if !ok {
		return false
	}
	s.Apply(snap)
	s.log.Debug("redo")
	return true
}

// NavigationState is the part of the state a navigation gesture changes
type NavigationState struct {
	View       core.ViewState
	PriceRange core.PriceRange
	AutoScale  bool
}

// Navigation returns the current navigation state
func (s *Session) Navigation() NavigationState {
	return NavigationState{
		View:       s.viewport.View(),
		PriceRange: s.viewport.PriceRange(),
		AutoScale:  s.autoScale,
	}
}

// CommitNavigation pushes the state from before a navigation gesture when
// the gesture changed the view. It reports whether an entry was pushed.
func (s *Session) CommitNavigation(before NavigationState) bool {
	if before == s.Navigation() {
		return false
	}
	snap := s.Snapshot()
	snap.View = before.View
	snap.PriceRange = before.PriceRange
	snap.AutoScale = before.AutoScale
	s.history.Push(snap)
	return true
}

// ResetView restores the default window and autoscale
func (s *Session) ResetView() {
	s.Commit()
	s.viewport.SetView(s.viewport.DefaultView())
	s.autoScale = true
	s.Autoscale()
}

// SetChartType switches the candle rendering
func (s *Session) SetChartType(t core.ChartType) {
	if !t.Valid() || t == s.chartType {
		return
	}
	s.Commit()
	s.chartType = t
}

// ToggleChartType cycles to the next chart type
func (s *Session) ToggleChartType() {
	s.SetChartType(s.chartType.Next())
}

// SetAutoScale turns price autoscaling on or off as a committed change
func (s *Session) SetAutoScale(on bool) {
	if on == s.autoScale {
		return
	}
	s.Commit()
	s.autoScale = on
	s.Autoscale()
}

// DisableAutoScale turns autoscaling off as part of a running gesture
func (s *Session) DisableAutoScale() {
	s.autoScale = false
}

// Autoscale fits the price range to the visible candles when enabled
func (s *Session) Autoscale() {
	if !s.autoScale {
		return
	}
	if r, ok := s.viewport.AutoScaleRange(); ok {
		s.viewport.SetPriceRange(r)
	}
}

// ToggleMagnet flips candle snapping
func (s *Session) ToggleMagnet() bool {
	s.snapper.Enabled = !s.snapper.Enabled
	return s.snapper.Enabled
}

// Select marks a drawing as selected; an empty id clears the selection
func (s *Session) Select(id string) {
	if id != "" && !s.drawings.Has(id) {
		return
	}
	s.selected = id
}

// Selected returns the selected drawing id
func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}
