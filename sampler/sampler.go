package sampler

import (
	"math"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// log is the package logger; cmd sets its level from --verbose
var log = logging.MustGetLogger("sampler")

func init() {
	// Per-block debug output is opt in
	logging.SetLevel(logging.WARNING, "sampler")
}

// Errors returned by the sampler. Call sites wrap them with context, so test
// with errors.Is (or errors.Cause).
var (
	ErrEmptySample     = errors.New("No samples: Draw must be called before Summarize")
	ErrInvalidArgument = errors.New("Invalid argument")
)

// LogDensity is an unnormalized log-probability. It may return -Inf for
// points outside the support of the target.
type LogDensity func(x float64) float64

// BlockStats describes one finished adaptation block
type BlockStats struct {
	Index    int     // Zero-based block index within the Adapt call
	Length   int     // Iterations in the block
	Accepted int     // Accepted proposals in the block
	Rate     float64 // Accepted / Length
	Scale    float64 // Proposal scale after the update
	Center   float64 // Proposal center after the update
}

// Settings control the adaptation schedule
type Settings struct {
	// TargetRate is the acceptance rate adaptation steers toward.
	TargetRate float64
	// Exponent is applied to Rate/TargetRate in the multiplicative update.
	Exponent float64
	// InitialScale is the proposal scale of a fresh sampler.
	InitialScale float64
	// MinScale is the floor the scale is clamped to after every update.
	MinScale float64
	// MaxScale is the matching ceiling, so a flat target can not push the
	// scale to +Inf.
	MaxScale float64
	// Window is the size of the rolling acceptance window kept during Draw.
	Window int
	// OnBlock, if set, is called after every adaptation block.
	OnBlock func(BlockStats)
}

// DefaultSettings returns the standard schedule: 40% target acceptance,
// exponent 1.1, unit starting scale.
func DefaultSettings() Settings {
	return Settings{
		TargetRate:   0.4,
		Exponent:     1.1,
		InitialScale: 1.0,
		MinScale:     1e-10,
		MaxScale:     1e10,
		Window:       100,
	}
}

// Check returns an error if the settings can not drive a sampler
func (s Settings) Check() error {
	if !(s.TargetRate > 0 && s.TargetRate < 1) {
		return errors.Wrapf(ErrInvalidArgument, "TargetRate %v must be in (0, 1)", s.TargetRate)
	}
	if !(s.Exponent > 0) {
		return errors.Wrapf(ErrInvalidArgument, "Exponent %v must be > 0", s.Exponent)
	}
	if !(s.MinScale > 0) {
		return errors.Wrapf(ErrInvalidArgument, "MinScale %v must be > 0", s.MinScale)
	}
	if !(s.MaxScale >= s.MinScale) || math.IsInf(s.MaxScale, 0) {
		return errors.Wrapf(ErrInvalidArgument, "MaxScale %v must be finite and >= MinScale %v", s.MaxScale, s.MinScale)
	}
	if !(s.InitialScale >= s.MinScale && s.InitialScale <= s.MaxScale) {
		return errors.Wrapf(ErrInvalidArgument, "InitialScale %v must be in [%v, %v]", s.InitialScale, s.MinScale, s.MaxScale)
	}
	if s.Window < 2 {
		return errors.Wrapf(ErrInvalidArgument, "Window %d must be >= 2", s.Window)
	}
	return nil
}
