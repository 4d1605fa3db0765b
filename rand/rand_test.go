package rand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMTBadSeed(t *testing.T) {
	assert := assert.New(t)

	gen, err := NewGeneratorSlice([]uint64{})
	assert.Nil(gen)
	assert.Error(err)
}

func TestMTCanonicalSeed(t *testing.T) {
	assert := assert.New(t)

	gen, err := NewGeneratorSlice([]uint64{0x12345, 0x23456, 0x34567, 0x45678})
	assert.NotNil(gen)
	assert.NoError(err)

	origTestSeq := []uint64{
		7266447313870364031,
		4946485549665804864,
		16945909448695747420,
		16394063075524226720,
		4873882236456199058,
	}

	// Now convert to the format we should get from Int63
	for _, v := range origTestSeq {
		exp := int64(v & 0x7fffffffffffffff)
		act := gen.Int63()
		assert.Equal(exp, act)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	assert := assert.New(t)

	g1, err := NewGenerator(42)
	assert.NoError(err)
	g2, err := NewGenerator(42)
	assert.NoError(err)
	g3, err := NewGenerator(43)
	assert.NoError(err)

	differs := false
	for i := 0; i < 256; i++ {
		n1, n2, n3 := g1.NormFloat64(), g2.NormFloat64(), g3.NormFloat64()
		u1, u2, u3 := g1.Float64(), g2.Float64(), g3.Float64()
		assert.Equal(n1, n2)
		assert.Equal(u1, u2)
		if n1 != n3 || u1 != u3 {
			differs = true
		}
	}
	assert.True(differs, "Different seeds produced identical streams")
}

func TestUniformRanges(t *testing.T) {
	assert := assert.New(t)

	gen, err := NewGenerator(7)
	assert.NoError(err)

	sum := 0.0
	const count = 10000
	for i := 0; i < count; i++ {
		u := gen.Float64()
		assert.True(u >= 0.0 && u < 1.0)

		o := gen.OpenFloat64()
		assert.True(o > 0.0 && o < 1.0)
		assert.False(math.IsInf(math.Log(o), 0))

		sum += u
	}
	assert.InDelta(0.5, sum/count, 0.02)

	assert.Panics(func() { gen.Int63n(0) })
	for i := 0; i < 100; i++ {
		v := gen.Int63n(10)
		assert.True(v >= 0 && v < 10)
	}
}

func TestNormalMoments(t *testing.T) {
	assert := assert.New(t)

	gen, err := NewGenerator(1)
	assert.NoError(err)

	const count = 20000
	sum, sumSq := 0.0, 0.0
	for i := 0; i < count; i++ {
		x := gen.Normal(3.0, 2.0)
		sum += x
		sumSq += x * x
	}
	mean := sum / count
	variance := sumSq/count - mean*mean
	assert.InDelta(3.0, mean, 0.1)
	assert.InDelta(4.0, variance, 0.25)
}

var benchSink float64

func BenchmarkNormFloat64(b *testing.B) {
	gen, err := NewGenerator(42)
	if err != nil {
		b.Fatalf("Could not init PRNG %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchSink = gen.NormFloat64()
	}
}

func TestSource(t *testing.T) {
	assert := assert.New(t)

	g1, err := NewGenerator(42)
	assert.NoError(err)
	g2, err := NewGenerator(42)
	assert.NoError(err)

	// The Source and the Generator share one stream
	src := g1.Source()
	for i := 0; i < 16; i++ {
		assert.Equal(int64(src.Uint64()&0x7fffffffffffffff), g2.Int63())
	}
	assert.Equal(g1.Int63(), g2.Int63())

	src.Seed(7)
	g3, err := NewGenerator(7)
	assert.NoError(err)
	assert.Equal(g3.Int63(), g1.Int63())
}
