package rand

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
	exprand "golang.org/x/exp/rand"
)

// A Generator is a seedable Mersenne Twister PRNG. Each sampler owns one so
// that a fixed seed reproduces a chain exactly. A Generator is NOT safe for
// concurrent use.
type Generator struct {
	src *mt19937.MT19937
	rnd *rand.Rand
}

// NewGenerator creates a new PRNG based on the given seed
func NewGenerator(seed int64) (*Generator, error) {
	src := mt19937.New()
	src.Seed(seed)
	return newGenerator(src), nil
}

// NewGeneratorSlice creates a new PRNG seeded from the given key (the
// init_by_array64 scheme of the reference MT19937-64 implementation).
func NewGeneratorSlice(key []uint64) (*Generator, error) {
	if len(key) < 1 {
		return nil, errors.New("Generator key must contain at least one value")
	}

	src := mt19937.New()
	src.SeedFromSlice(key)
	return newGenerator(src), nil
}

func newGenerator(src *mt19937.MT19937) *Generator {
	return &Generator{
		src: src,
		rnd: rand.New(src),
	}
}

// Int63 provides the same interface as Go's math/rand
func (g *Generator) Int63() int64 {
	return g.src.Int63()
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Float64 uses the commented, simpler implmentation from Go's math/rand:
// the result is in [0, 1)
func (g *Generator) Float64() float64 {
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

// OpenFloat64 returns a uniform variate in the open interval (0, 1). Zero is
// redrawn, which happens with probability 2^-53.
func (g *Generator) OpenFloat64() float64 {
	for {
		if u := g.Float64(); u > 0 {
			return u
		}
	}
}

// NormFloat64 returns a standard normal variate (mean 0, sd 1)
func (g *Generator) NormFloat64() float64 {
	return g.rnd.NormFloat64()
}

// Normal returns a normal variate with the given mean and standard deviation
func (g *Generator) Normal(mu, sigma float64) float64 {
	return mu + sigma*g.NormFloat64()
}

// Source exposes the generator's stream as a golang.org/x/exp/rand.Source,
// which is what gonum distributions take as Src. Draws through the Source
// advance the same stream as the Generator's own methods.
func (g *Generator) Source() exprand.Source {
	return source{g.src}
}

type source struct {
	mt *mt19937.MT19937
}

func (s source) Uint64() uint64 {
	return s.mt.Uint64()
}

func (s source) Seed(seed uint64) {
	s.mt.Seed(int64(seed))
}
