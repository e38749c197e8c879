package calculation

import (
	"math"
	"math/rand/v2"
	"time"
)

// seedFunc supplies the master seed of a run configured with seed 0. It never returns 0.
var seedFunc = func() int64 {
	if s := time.Now().UnixNano() & math.MaxInt64; s != 0 {
		return s
	}
	return 1
}

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// DrawSource supplies the random variates of a single scenario.
// Implementations need not be safe for concurrent use; each scenario owns one.
type DrawSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// ExpFloat64 returns an exponential value with rate 1.
	ExpFloat64() float64
	// NormFloat64 returns a standard normal value.
	NormFloat64() float64
}

// defaultBatchSize is the number of uniforms a batched source draws per refill
const defaultBatchSize = 4096

// NewDrawSource returns the stream of one scenario. Streams are keyed by the
// master seed and the scenario index only, so a scenario draws the same values
// regardless of which worker runs it or in what order.
func NewDrawSource(seed int64, scenario int, batched bool) DrawSource {
	pcg := scenarioPCG(seed, scenario)
	if batched {
		return newBatchedSource(pcg, defaultBatchSize)
	}
	return rand.New(pcg)
}

func scenarioPCG(seed int64, scenario int) *rand.PCG {
	hi := splitmix64(uint64(seed))
	lo := splitmix64(hi ^ splitmix64(uint64(scenario)))
	return rand.NewPCG(hi, lo)
}

// splitmix64 scrambles a 64-bit key into a well-mixed generator seed
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// batchedSource pre-draws uniforms in blocks and derives the other variates from them
type batchedSource struct {
	src rand.Source
	buf []float64
	pos int
}

func newBatchedSource(src rand.Source, size int) *batchedSource {
	if size < 1 {
		size = defaultBatchSize
	}
	b := &batchedSource{src: src, buf: make([]float64, size)}
	b.pos = len(b.buf)
	return b
}

func (b *batchedSource) refill() {
	for i := range b.buf {
		b.buf[i] = float64(b.src.Uint64()>>11) / (1 << 53)
	}
	b.pos = 0
}

func (b *batchedSource) Float64() float64 {
	if b.pos == len(b.buf) {
		b.refill()
	}
	v := b.buf[b.pos]
	b.pos++
	return v
}

// ExpFloat64 uses inversion; 1-u keeps the argument of the log in (0, 1].
func (b *batchedSource) ExpFloat64() float64 {
	return -math.Log(1 - b.Float64())
}

func (b *batchedSource) NormFloat64() float64 {
	return boxMullerTransform(1-b.Float64(), b.Float64())
}

// boxMullerTransform implements Box-Muller transform for normal distribution
func boxMullerTransform(u1, u2 float64) float64 {
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// bernoulli always consumes one uniform so the stream layout does not depend on p
func bernoulli(src DrawSource, p float64) bool {
	return src.Float64() < p
}

// poisson draws a Poisson variate by Knuth's product of uniforms
func poisson(src DrawSource, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	prod := 1.0
	for {
		prod *= src.Float64()
		if prod <= limit {
			return k
		}
		k++
	}
}
