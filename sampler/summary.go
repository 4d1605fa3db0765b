package sampler

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Summary holds point and interval estimates over a set of samples
type Summary struct {
	Mean float64 `json:"mean"`
	C025 float64 `json:"c025"` // 2.5th percentile
	C975 float64 `json:"c975"` // 97.5th percentile
}

// Map returns the summary keyed the way reports name the estimates
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		"mean": s.Mean,
		"c025": s.C025,
		"c975": s.C975,
	}
}

// Summarize computes the mean and the central 95% interval of the samples
// from the last Draw.
func (m *Metropolis) Summarize() (Summary, error) {
	return Summarize(m.samples)
}

// Summarize computes the mean, 2.5th and 97.5th percentile of x. It fails
// with ErrEmptySample when x is empty.
func Summarize(x []float64) (Summary, error) {
	if len(x) < 1 {
		return Summary{}, errors.WithStack(ErrEmptySample)
	}

	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	return Summary{
		Mean: stat.Mean(x, nil),
		C025: Percentile(sorted, 2.5),
		C975: Percentile(sorted, 97.5),
	}, nil
}

// Percentile returns the p-th percentile (0 <= p <= 100) of sorted, which
// must be in increasing order. Values between order statistics are linearly
// interpolated at rank (n-1)*p/100.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n < 1 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	h := float64(n-1) * p / 100
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}

	frac := h - lo
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
