package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/jpillora/backoff"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/indicator"
	"github.com/raykavin/chartcore/pkg/logger"
	"github.com/raykavin/chartcore/pkg/logger/zerolog"
)

type job struct {
	name string
	run  func() error
}

// Dispatcher writes committed chart state to a Store from a single worker
// goroutine. Enqueueing never blocks: when the queue is full the write is
// dropped and logged. Failed writes are retried with exponential backoff.
type Dispatcher struct {
	store      Store
	log        logger.Logger
	jobs       chan job
	maxRetries int
	newBackoff func() *backoff.Backoff
	sleep      func(time.Duration)

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// DispatcherOption customizes a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithSleep replaces the wait between retries
func WithSleep(sleep func(time.Duration)) DispatcherOption {
	return func(d *Dispatcher) {
		d.sleep = sleep
	}
}

// NewDispatcher starts the worker. Close must be called to flush the queue.
func NewDispatcher(store Store, settings config.StorageSettings, log logger.Logger, options ...DispatcherOption) *Dispatcher {
	if log == nil {
		log = zerolog.NewNop()
	}
	size := settings.QueueSize
	if size <= 0 {
		size = 1
	}

	d := &Dispatcher{
		store:      store,
		log:        log.WithField("component", "storage"),
		jobs:       make(chan job, size),
		maxRetries: settings.MaxRetries,
		newBackoff: func() *backoff.Backoff {
			return &backoff.Backoff{
				Min:    settings.RetryMin,
				Max:    settings.RetryMax,
				Factor: 2,
				Jitter: true,
			}
		},
		sleep: time.Sleep,
		done:  make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}

	go d.work()
	return d
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for j := range d.jobs {
		d.execute(j)
	}
}

func (d *Dispatcher) execute(j job) {
	b := d.newBackoff()
	for {
		err := j.run()
		if err == nil {
			return
		}

		if int(b.Attempt()) >= d.maxRetries {
			d.log.WithError(err).WithField("write", j.name).Error("persistence failed, giving up")
			return
		}

		wait := b.Duration()
		d.log.WithError(err).WithField("write", j.name).Warnf("persistence failed, retrying in %s", wait)
		d.sleep(wait)
	}
}

func (d *Dispatcher) enqueue(name string, run func() error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.WithField("write", name).Warn("dispatcher closed, write dropped")
		return
	}

	select {
	case d.jobs <- job{name: name, run: run}:
	default:
		d.log.WithField("write", name).Error("persistence queue full, write dropped")
	}
}

// PersistDrawings saves the drawings of symbol
func (d *Dispatcher) PersistDrawings(symbol string, drawings drawing.Collection) {
	d.enqueue("drawings:"+symbol, func() error {
		return d.store.SaveDrawings(symbol, drawings)
	})
}

// PersistIndicators saves the indicator configurations of symbol
func (d *Dispatcher) PersistIndicators(symbol string, configs []indicator.Config) {
	d.enqueue("indicators:"+symbol, func() error {
		return d.store.SaveIndicators(symbol, configs)
	})
}

// PersistAlert saves an alert
func (d *Dispatcher) PersistAlert(a alert.PriceAlert) {
	d.enqueue("alert:"+a.ID, func() error {
		return d.store.SaveAlert(a)
	})
}

// RemoveAlert deletes an alert. A missing record is not an error.
func (d *Dispatcher) RemoveAlert(id string) {
	d.enqueue("remove-alert:"+id, func() error {
		if err := d.store.DeleteAlert(id); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	})
}

// Close stops accepting writes and waits until the queued ones finish
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	<-d.done
}
