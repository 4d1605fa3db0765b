// Package sdt models yes/no signal detection experiments: observed counts,
// simulated counts for a given sensitivity, and the ROC loss used to build a
// log-posterior for the sampler.
package sdt

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// SignalDetection holds the four outcome counts of one experimental
// condition (one response criterion).
type SignalDetection struct {
	Hits              int
	Misses            int
	FalseAlarms       int
	CorrectRejections int
}

// New creates a validated SignalDetection
func New(hits, misses, falseAlarms, correctRejections int) (*SignalDetection, error) {
	s := &SignalDetection{
		Hits:              hits,
		Misses:            misses,
		FalseAlarms:       falseAlarms,
		CorrectRejections: correctRejections,
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Check returns an error if the counts can not define hit and false alarm rates
func (s SignalDetection) Check() error {
	if s.Hits < 0 || s.Misses < 0 || s.FalseAlarms < 0 || s.CorrectRejections < 0 {
		return errors.Errorf("Negative count in %+v", s)
	}
	if s.Hits+s.Misses < 1 {
		return errors.Errorf("No signal trials in %+v", s)
	}
	if s.FalseAlarms+s.CorrectRejections < 1 {
		return errors.Errorf("No noise trials in %+v", s)
	}
	return nil
}

// HitRate is Hits / signal trials
func (s SignalDetection) HitRate() float64 {
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// FalseAlarmRate is FalseAlarms / noise trials
func (s SignalDetection) FalseAlarmRate() float64 {
	return float64(s.FalseAlarms) / float64(s.FalseAlarms+s.CorrectRejections)
}

// DPrime is the sensitivity index z(H) - z(FA)
func (s SignalDetection) DPrime() float64 {
	return distuv.UnitNormal.Quantile(s.HitRate()) - distuv.UnitNormal.Quantile(s.FalseAlarmRate())
}

// Criterion is the response bias -(z(H) + z(FA)) / 2
func (s SignalDetection) Criterion() float64 {
	return -0.5 * (distuv.UnitNormal.Quantile(s.HitRate()) + distuv.UnitNormal.Quantile(s.FalseAlarmRate()))
}

// NLogLikelihood is the negative binomial log-likelihood of the counts given
// predicted hit and false alarm rates. Zero counts contribute nothing, so a
// rate of exactly 0 or 1 only costs +Inf when it is contradicted.
func (s SignalDetection) NLogLikelihood(hitRate, falseAlarmRate float64) float64 {
	return -(xlogy(s.Hits, hitRate) +
		xlogy(s.Misses, 1-hitRate) +
		xlogy(s.FalseAlarms, falseAlarmRate) +
		xlogy(s.CorrectRejections, 1-falseAlarmRate))
}

// xlogy is n*log(p) with 0*log(0) == 0
func xlogy(n int, p float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(n) * math.Log(p)
}

// ROCCurve is the predicted hit rate at the given false alarm rate for an
// equal-variance ROC with sensitivity a: Phi(a + z(FA)).
func ROCCurve(falseAlarmRate, a float64) float64 {
	return distuv.UnitNormal.CDF(a + distuv.UnitNormal.Quantile(falseAlarmRate))
}

// ROCLoss sums the negative log-likelihood of every condition, using the ROC
// curve with sensitivity a to predict each hit rate.
func ROCLoss(a float64, conditions []SignalDetection) float64 {
	loss := 0.0
	for _, s := range conditions {
		fa := s.FalseAlarmRate()
		loss += s.NLogLikelihood(ROCCurve(fa, a), fa)
	}
	return loss
}

// LogLikelihood returns a -ROCLoss log-density over a for the conditions
func LogLikelihood(conditions []SignalDetection) (func(float64) float64, error) {
	if len(conditions) < 1 {
		return nil, errors.New("At least one condition is required")
	}
	for i, s := range conditions {
		if err := s.Check(); err != nil {
			return nil, errors.Wrapf(err, "Condition %d is invalid", i)
		}
	}

	cp := make([]SignalDetection, len(conditions))
	copy(cp, conditions)

	return func(a float64) float64 {
		l := -ROCLoss(a, cp)
		if math.IsNaN(l) {
			return math.Inf(-1)
		}
		return l
	}, nil
}
