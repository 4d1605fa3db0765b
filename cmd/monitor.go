package cmd

import (
	"expvar"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/metro/sampler"
)

const progressName = "metro-progress"

// monitor publishes sampler progress over HTTP via expvar
type monitor struct {
	info     *expvar.Map
	stopped  chan struct{}
	server   *http.Server
	listener net.Listener
	start    time.Time

	Seed          *expvar.Int
	BlocksPlanned *expvar.Int
	BlocksDone    *expvar.Int
	Samples       *expvar.Int
	LastRate      *expvar.Float
	Scale         *expvar.Float
	Center        *expvar.Float
	State         *expvar.Float
	Acceptance    *expvar.Float
	RunTime       *expvar.Float
}

// Start begins the monitor on the given address (host:port)
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	// The published map is process wide: reuse it on a second run
	if v, ok := expvar.Get(progressName).(*expvar.Map); ok {
		m.info = v
	} else {
		m.info = expvar.NewMap(progressName)
	}

	m.Seed = new(expvar.Int)
	m.BlocksPlanned = new(expvar.Int)
	m.BlocksDone = new(expvar.Int)
	m.Samples = new(expvar.Int)
	m.LastRate = new(expvar.Float)
	m.Scale = new(expvar.Float)
	m.Center = new(expvar.Float)
	m.State = new(expvar.Float)
	m.Acceptance = new(expvar.Float)
	m.RunTime = new(expvar.Float)

	m.info.Set("Seed", m.Seed)
	m.info.Set("Blocks-Planned", m.BlocksPlanned)
	m.info.Set("Blocks-Done", m.BlocksDone)
	m.info.Set("Samples", m.Samples)
	m.info.Set("Last-Block-Rate", m.LastRate)
	m.info.Set("Scale", m.Scale)
	m.info.Set("Center", m.Center)
	m.info.Set("State", m.State)
	m.info.Set("Acceptance", m.Acceptance)
	m.info.Set("Run-Time", m.RunTime)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		m.info = nil
		return errors.Wrapf(err, "Monitor could not listen on %s", addr)
	}
	m.listener = l
	m.start = time.Now()

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.stopped = make(chan struct{})
	m.server = &http.Server{Handler: mux}

	go func() {
		defer close(m.stopped)
		logger.Noticef("HTTP now available at %v (see debug/vars/)", l.Addr())
		m.server.Serve(l)
	}()

	return nil
}

// Addr is the address the monitor is listening on
func (m *monitor) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Block records a finished adaptation block
func (m *monitor) Block(b sampler.BlockStats) {
	if m.info == nil {
		return
	}
	m.BlocksDone.Add(1)
	m.LastRate.Set(b.Rate)
	m.Scale.Set(b.Scale)
	m.Center.Set(b.Center)
	m.RunTime.Set(time.Since(m.start).Seconds())
}

// Drawn records the state after the sampling phase
func (m *monitor) Drawn(s *sampler.Metropolis) {
	if m.info == nil {
		return
	}
	m.Samples.Set(int64(len(s.Samples())))
	m.State.Set(s.State())
	m.Scale.Set(s.Scale())
	m.Acceptance.Set(s.AcceptanceRate())
	m.RunTime.Set(time.Since(m.start).Seconds())
}

// Stop shuts the HTTP server down
func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		logger.Notice("HTTP Info Stopped")
	case <-time.After(2 * time.Second):
		logger.Warning("HTTP would NOT stop: just continuing on")
	}
}
