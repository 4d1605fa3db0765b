package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/metro/buffer"
	"github.com/CraigKelly/metro/rand"
)

// Metropolis is a single-chain adaptive random-walk Metropolis sampler for a
// one-dimensional target. Adapt tunes the proposal scale block by block,
// Draw collects samples at the tuned scale and Summarize reads them.
type Metropolis struct {
	target   LogDensity
	gen      *rand.Generator
	settings Settings

	current float64
	scale   float64
	center  float64
	initial float64
	samples []float64

	accepted int
	window   *buffer.CircularInt
}

// NewMetropolis creates a sampler with DefaultSettings
func NewMetropolis(gen *rand.Generator, target LogDensity, initialState float64) (*Metropolis, error) {
	return NewMetropolisWithSettings(gen, target, initialState, DefaultSettings())
}

// NewMetropolisWithSettings creates a sampler starting at initialState. The
// log-density is not evaluated here.
func NewMetropolisWithSettings(gen *rand.Generator, target LogDensity, initialState float64, s Settings) (*Metropolis, error) {
	if gen == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "No generator supplied")
	}
	if target == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "No log-density supplied")
	}
	if err := s.Check(); err != nil {
		return nil, errors.Wrap(err, "Bad sampler settings")
	}

	m := &Metropolis{
		target:   target,
		gen:      gen,
		settings: s,
		current:  initialState,
		scale:    s.InitialScale,
		center:   0.0,
		initial:  initialState,
		samples:  []float64{},
		window:   buffer.NewCircularInt(s.Window),
	}
	return m, nil
}

// acceptOrReject is the Metropolis step: the proposal becomes the current
// state with probability min(1, exp(target(proposal) - target(current))).
// A NaN log-ratio (e.g. both points outside the support) is a rejection.
func (m *Metropolis) acceptOrReject(proposal float64) bool {
	a := math.Min(0, m.target(proposal)-m.target(m.current))
	if math.Log(m.gen.OpenFloat64()) < a {
		m.current = proposal
		return true
	}
	return false
}

// Adapt runs one adaptation block per entry of blockLengths. Proposals are
// drawn from Normal(center, scale); after each block the center moves to the
// current state and the scale is multiplied by (rate/TargetRate)^Exponent,
// then clamped to [MinScale, MaxScale]. An empty schedule does nothing.
//
// A block with rate 0 sends the scale straight to the floor, and climbing back
// is slow: at the default schedule an all-accept block multiplies the scale by
// 2.5^1.1 (about 2.74), so getting from 1e-10 back to 1 takes about 23 blocks.
func (m *Metropolis) Adapt(blockLengths []int) error {
	for i, l := range blockLengths {
		if l < 1 {
			return errors.Wrapf(ErrInvalidArgument, "Block %d has length %d (must be > 0)", i, l)
		}
	}

	s := m.settings
	for i, l := range blockLengths {
		accepted := 0
		for j := 0; j < l; j++ {
			proposed := m.gen.Normal(m.center, m.scale)
			if m.acceptOrReject(proposed) {
				accepted++
			}
		}

		rk := float64(accepted) / float64(l)
		m.center = m.current
		m.scale *= math.Pow(rk/s.TargetRate, s.Exponent)
		if m.scale < s.MinScale {
			log.Warningf("Block %d: scale %g below floor, clamped to %g", i, m.scale, s.MinScale)
			m.scale = s.MinScale
		} else if m.scale > s.MaxScale {
			log.Warningf("Block %d: scale %g above ceiling, clamped to %g", i, m.scale, s.MaxScale)
			m.scale = s.MaxScale
		}

		stats := BlockStats{
			Index:    i,
			Length:   l,
			Accepted: accepted,
			Rate:     rk,
			Scale:    m.scale,
			Center:   m.center,
		}
		log.Debugf("Adapt block %d: L=%d rate=%.3f scale=%g center=%g", i, l, rk, m.scale, m.center)
		if s.OnBlock != nil {
			s.OnBlock(stats)
		}
	}

	return nil
}

// Draw replaces the samples with nSamples new ones. Proposals come from
// Normal(current, scale) with the scale held fixed.
//
// NOTE: the recorded value is the proposal, accepted or not, and NOT the
// chain state after the accept/reject step. Existing consumers depend on this
// sequence; State reports the chain position.
func (m *Metropolis) Draw(nSamples int) error {
	if nSamples < 1 {
		return errors.Wrapf(ErrInvalidArgument, "Sample count %d (must be > 0)", nSamples)
	}

	samples := make([]float64, nSamples)
	m.accepted = 0
	m.window.Reset()

	for i := 0; i < nSamples; i++ {
		proposed := m.gen.Normal(m.current, m.scale)
		if m.acceptOrReject(proposed) {
			m.current = proposed
			m.accepted++
			m.window.Add(1)
		} else {
			m.window.Add(0)
		}
		samples[i] = proposed
	}

	m.samples = samples
	log.Debugf("Drew %d samples: acceptance=%.3f scale=%g", nSamples, m.AcceptanceRate(), m.scale)
	return nil
}

// State returns the current position of the chain
func (m *Metropolis) State() float64 {
	return m.current
}

// Scale returns the current proposal scale
func (m *Metropolis) Scale() float64 {
	return m.scale
}

// Center returns the adaptation proposal center
func (m *Metropolis) Center() float64 {
	return m.center
}

// InitialState returns the state the sampler was created with
func (m *Metropolis) InitialState() float64 {
	return m.initial
}

// Samples returns a copy of the samples from the last Draw
func (m *Metropolis) Samples() []float64 {
	cp := make([]float64, len(m.samples))
	copy(cp, m.samples)
	return cp
}

// AcceptanceRate is the fraction of proposals accepted during the last Draw
func (m *Metropolis) AcceptanceRate() float64 {
	if len(m.samples) < 1 {
		return 0
	}
	return float64(m.accepted) / float64(len(m.samples))
}

// RollingAcceptanceRate is the acceptance rate over the last Window proposals
// of the last Draw. The second value is the (newer half - older half) rate
// difference, or 0 if fewer than Window proposals were made.
func (m *Metropolis) RollingAcceptanceRate() (float64, float64) {
	older := m.window.FirstHalf()
	if older == nil {
		return m.window.Mean(), 0
	}
	return m.window.Mean(), m.window.SecondHalf().HalfMean() - older.HalfMean()
}
