package plot

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/interaction"
	"github.com/raykavin/chartcore/pkg/logger"
)

// Server exposes a chart session over HTTP. Requests are serialized onto
// the session with the embedded mutex.
type Server struct {
	sync.Mutex
	port       int
	machine    *interaction.Machine
	log        logger.Logger
	lastUpdate time.Time
	now        func() time.Time
}

var _ core.CandleSubscriber = (*Server)(nil)

// Option defines a function type for configuring a Server instance
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a server for the machine's session
func NewServer(machine *interaction.Machine, log logger.Logger, options ...Option) *Server {
	s := &Server{
		port:    8080,
		machine: machine,
		log:     log,
		now:     time.Now,
	}

	for _, option := range options {
		option(s)
	}

	s.lastUpdate = s.now()
	return s
}

// OnCandle appends a live candle to the session
func (s *Server) OnCandle(candle core.Candle) {
	s.Lock()
	defer s.Unlock()

	s.machine.Session().AppendCandle(candle)
	s.lastUpdate = s.now()
}

// Do runs fn with exclusive access to the machine
func (s *Server) Do(fn func(m *interaction.Machine)) {
	s.Lock()
	defer s.Unlock()
	fn(s.machine)
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/frame", s.handleFrame)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/drawings", s.handleDrawings)
	mux.HandleFunc("/alerts.csv", s.handleAlertLog)
	return mux
}

// Start serves the chart until the listener fails
func (s *Server) Start() error {
	s.log.Infof("Chart available at http://localhost:%d", s.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler())
}
