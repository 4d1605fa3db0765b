package sdt

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/metro/rand"
)

// Simulate draws one SignalDetection per criterion for an observer with the
// given sensitivity. Signal trials are hits with probability
// Phi(dprime/2 - c) and noise trials are false alarms with probability
// Phi(-dprime/2 - c).
func Simulate(gen *rand.Generator, dprime float64, criteria []float64, signalCount, noiseCount int) ([]SignalDetection, error) {
	if gen == nil {
		return nil, errors.New("No generator supplied")
	}
	if len(criteria) < 1 {
		return nil, errors.New("At least one criterion is required")
	}
	if signalCount < 1 || noiseCount < 1 {
		return nil, errors.Errorf("Invalid trial counts signal=%d noise=%d", signalCount, noiseCount)
	}

	src := gen.Source()
	out := make([]SignalDetection, len(criteria))
	for i, c := range criteria {
		hitProb := distuv.UnitNormal.CDF(dprime/2 - c)
		faProb := distuv.UnitNormal.CDF(-dprime/2 - c)

		hits := int(distuv.Binomial{N: float64(signalCount), P: hitProb, Src: src}.Rand())
		fas := int(distuv.Binomial{N: float64(noiseCount), P: faProb, Src: src}.Rand())

		out[i] = SignalDetection{
			Hits:              hits,
			Misses:            signalCount - hits,
			FalseAlarms:       fas,
			CorrectRejections: noiseCount - fas,
		}
	}

	return out, nil
}
