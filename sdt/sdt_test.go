package sdt

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CraigKelly/metro/rand"
)

// Roughly what an observer with d'=1 and criteria -1, 0, 1 produces over
// 40 signal and 40 noise trials.
func testConditions() []SignalDetection {
	return []SignalDetection{
		{Hits: 37, Misses: 3, FalseAlarms: 28, CorrectRejections: 12},
		{Hits: 28, Misses: 12, FalseAlarms: 12, CorrectRejections: 28},
		{Hits: 12, Misses: 28, FalseAlarms: 3, CorrectRejections: 37},
	}
}

func TestRates(t *testing.T) {
	assert := assert.New(t)

	s, err := New(15, 5, 15, 5)
	assert.NoError(err)
	assert.InDelta(0.75, s.HitRate(), 1e-12)
	assert.InDelta(0.75, s.FalseAlarmRate(), 1e-12)
	assert.InDelta(0.0, s.DPrime(), 1e-12)

	s, err = New(40, 10, 20, 30)
	assert.NoError(err)
	assert.InDelta(0.8, s.HitRate(), 1e-12)
	assert.InDelta(0.4, s.FalseAlarmRate(), 1e-12)
	// norm.ppf(0.8) - norm.ppf(0.4)
	assert.InDelta(1.0949683, s.DPrime(), 1e-6)
	// -0.5 * (norm.ppf(0.8) + norm.ppf(0.4))
	assert.InDelta(-0.2941371, s.Criterion(), 1e-6)

	_, err = New(-1, 1, 1, 1)
	assert.Error(err)
	_, err = New(0, 0, 1, 1)
	assert.Error(err)
	_, err = New(1, 1, 0, 0)
	assert.Error(err)
}

func TestNLogLikelihood(t *testing.T) {
	assert := assert.New(t)

	s := SignalDetection{Hits: 3, Misses: 1, FalseAlarms: 2, CorrectRejections: 2}
	exp := -(3*math.Log(0.7) + 1*math.Log(0.3) + 2*math.Log(0.2) + 2*math.Log(0.8))
	assert.InDelta(exp, s.NLogLikelihood(0.7, 0.2), 1e-12)

	// Zero counts never produce NaN
	s = SignalDetection{Hits: 4, Misses: 0, FalseAlarms: 0, CorrectRejections: 4}
	assert.InDelta(0.0, s.NLogLikelihood(1.0, 0.0), 1e-12)
	assert.True(math.IsInf(s.NLogLikelihood(0.0, 0.0), 1))
}

func TestROC(t *testing.T) {
	assert := assert.New(t)

	// a=0 is the chance diagonal
	assert.InDelta(0.3, ROCCurve(0.3, 0), 1e-9)
	assert.True(ROCCurve(0.3, 1) > 0.3)
	assert.True(ROCCurve(0.3, -1) < 0.3)

	conds := testConditions()
	// Loss is lowest near the generating sensitivity
	assert.True(ROCLoss(1.0, conds) < ROCLoss(0.0, conds))
	assert.True(ROCLoss(1.0, conds) < ROCLoss(3.0, conds))

	ld, err := LogLikelihood(conds)
	assert.NoError(err)
	assert.InDelta(-ROCLoss(1.0, conds), ld(1.0), 1e-12)

	_, err = LogLikelihood(nil)
	assert.Error(err)
	_, err = LogLikelihood([]SignalDetection{{}})
	assert.Error(err)
}

func TestSimulate(t *testing.T) {
	assert := assert.New(t)

	gen, err := rand.NewGenerator(42)
	assert.NoError(err)

	conds, err := Simulate(gen, 1, []float64{-1, 0, 1}, 40, 40)
	assert.NoError(err)
	assert.Len(conds, 3)
	for _, s := range conds {
		assert.Equal(40, s.Hits+s.Misses)
		assert.Equal(40, s.FalseAlarms+s.CorrectRejections)
		assert.NoError(s.Check())
	}

	// A higher criterion means fewer "yes" responses
	assert.True(conds[0].Hits >= conds[2].Hits)
	assert.True(conds[0].FalseAlarms >= conds[2].FalseAlarms)

	// Large trial counts recover the generating rates
	big, err := Simulate(gen, 2, []float64{0}, 20000, 20000)
	assert.NoError(err)
	assert.InDelta(0.8413, big[0].HitRate(), 0.015)
	assert.InDelta(0.1587, big[0].FalseAlarmRate(), 0.015)
	assert.InDelta(2.0, big[0].DPrime(), 0.1)

	// Counts come from the generator's own stream
	g1, err := rand.NewGenerator(5)
	assert.NoError(err)
	g2, err := rand.NewGenerator(5)
	assert.NoError(err)
	c1, err := Simulate(g1, 1, []float64{-1, 0, 1}, 30, 300)
	assert.NoError(err)
	c2, err := Simulate(g2, 1, []float64{-1, 0, 1}, 30, 300)
	assert.NoError(err)
	assert.Equal(c1, c2)

	_, err = Simulate(nil, 1, []float64{0}, 1, 1)
	assert.Error(err)
	_, err = Simulate(gen, 1, nil, 1, 1)
	assert.Error(err)
	_, err = Simulate(gen, 1, []float64{0}, 0, 1)
	assert.Error(err)
}

func TestRead(t *testing.T) {
	assert := assert.New(t)

	data := `
c d'=1 observer
37 3 28 12
# second criterion
28 12 12 28

12 28 3 37
`
	conds, err := Read(strings.NewReader(data))
	assert.NoError(err)
	assert.Equal(testConditions(), conds)

	_, err = Read(strings.NewReader("c nothing here\n"))
	assert.Error(err)
	_, err = Read(strings.NewReader("1 2 3\n"))
	assert.Error(err)
	// Ragged lines are rejected even when the total is a multiple of 4
	_, err = Read(strings.NewReader("37 3 28\n12 28 12 28 12\n"))
	assert.Error(err)
	_, err = Read(strings.NewReader("37 3 28 12 28\n12 28 12\n"))
	assert.Error(err)
	_, err = Read(strings.NewReader("1 2 x 4\n"))
	assert.Error(err)
	_, err = Read(strings.NewReader("0 0 3 4\n"))
	assert.Error(err)

	fn := filepath.Join(t.TempDir(), "counts.txt")
	assert.NoError(os.WriteFile(fn, []byte(data), 0644))
	conds, err = ReadFile(fn)
	assert.NoError(err)
	assert.Len(conds, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(err)
}
