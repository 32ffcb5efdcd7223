// SPDX-License-Identifier: EPL-2.0

package generator

import "github.com/auralengine/aural/engine"

// NoiseType selects which noise algorithm a NoiseGenerator runs.
type NoiseType int

const (
	NoiseUniform NoiseType = iota
	NoiseVossMcCartney
	NoiseFilteredBrown
)

var noisePropertyTable = engine.NewPropertyTable([]engine.PropertySpec{
	{
		ID: engine.PropNoiseType, Kind: engine.KindInt,
		Get: func(obj any) engine.Value { return engine.IntValue(int64(obj.(*NoiseGenerator).kind)) },
		Set: func(obj any, v engine.Value) error {
			obj.(*NoiseGenerator).kind = NoiseType(v.I)
			return nil
		},
	},
	{
		ID: engine.PropGain, Kind: engine.KindDouble, Min: 0, Max: 8,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*NoiseGenerator).gain) },
		Set: func(obj any, v engine.Value) error {
			obj.(*NoiseGenerator).gain = v.D
			return nil
		},
	},
})

const vossRows = 16

// NoiseGenerator produces one of three noise colors: uniform white
// (xorshift32), Voss-McCartney pink, or brown (white integrated, then run
// through a leaky one-pole to bound DC drift) (spec §4.8).
type NoiseGenerator struct {
	kind     NoiseType
	channels int
	gain     float64

	rngState uint32

	vossRowValues [vossRows]float64
	vossCounter   uint64

	brownState float64
}

// NewNoiseGenerator creates a generator producing the given channel
// count, seeded deterministically so tests are reproducible. Returns a
// value so callers can wrap it directly in a Shared[NoiseGenerator].
func NewNoiseGenerator(channels int, seed uint32) NoiseGenerator {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return NoiseGenerator{channels: channels, gain: 1, rngState: seed}
}

func (g *NoiseGenerator) SetProperty(id int, v engine.Value) error {
	return noisePropertyTable.Set(g, id, v)
}

func (g *NoiseGenerator) GetProperty(id int) (engine.Value, error) {
	return noisePropertyTable.Get(g, id)
}

func (g *NoiseGenerator) Channels() int { return g.channels }

// xorshift32 is a minimal, fast, deterministic PRNG — sufficient for
// audio noise, not for anything security-sensitive.
func (g *NoiseGenerator) xorshift32() uint32 {
	x := g.rngState
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.rngState = x
	return x
}

// uniform returns a uniform sample in [-1, 1).
func (g *NoiseGenerator) uniform() float64 {
	return float64(g.xorshift32())/float64(1<<31) - 1
}

// voss runs the classic Voss-McCartney algorithm: vossRows independent
// white sources, each updated only when its corresponding low bit of an
// incrementing counter flips, summed for a pink (1/f) spectrum.
func (g *NoiseGenerator) voss() float64 {
	g.vossCounter++
	var sum float64
	for row := 0; row < vossRows; row++ {
		if (g.vossCounter^(g.vossCounter-1))&(1<<uint(row)) == 0 {
			continue
		}
		g.vossRowValues[row] = g.uniform()
	}
	for _, v := range g.vossRowValues {
		sum += v
	}
	return sum / vossRows
}

// brown integrates white noise and leaks it back toward zero each sample,
// bounding the otherwise-unbounded random-walk drift of pure integration.
func (g *NoiseGenerator) brown() float64 {
	const leak = 0.995
	g.brownState = g.brownState*leak + g.uniform()*0.05
	return g.brownState
}

func (g *NoiseGenerator) sample() float64 {
	switch g.kind {
	case NoiseVossMcCartney:
		return g.voss()
	case NoiseFilteredBrown:
		return g.brown()
	default:
		return g.uniform()
	}
}

// Fill writes BlockSize frames of the configured noise color, broadcast
// identically across every channel and scaled by gain.
func (g *NoiseGenerator) Fill(dst []float32, blockTime uint64) {
	for i := 0; i < engine.BlockSize; i++ {
		v := float32(g.sample() * g.gain)
		base := i * g.channels
		for c := 0; c < g.channels; c++ {
			dst[base+c] = v
		}
	}
}
