// SPDX-License-Identifier: EPL-2.0

package effect

import (
	"github.com/auralengine/aural/dsp"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/router"
)

// channels is the fixed internal channel count every effect processes at,
// downmixed/upmixed from and to the engine's negotiated output count on
// the way in and out (grounded on original_source's BlockDelayLine<2,...>
// used by both the echo and reverb effects).
const channels = 2

// effectSharedSpecs returns the property specs common to every effect
// (wet-output gain, input filter enable/cutoff), dispatched through the
// holder interface so any concrete effect type can share them. Callers
// that add their own specs append to a fresh copy of this slice rather
// than mutating it.
func effectSharedSpecs() []engine.PropertySpec {
	return []engine.PropertySpec{
		{
			ID: engine.PropGain, Kind: engine.KindDouble, Min: 0, Max: 16,
			Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(holder).pipeline().gain.ValueAt(obj.(holder).pipeline().blockTime)) },
			Set: func(obj any, v engine.Value) error {
				b := obj.(holder).pipeline()
				b.gain.SetValue(b.blockTime, v.D)
				return nil
			},
		},
		{
			ID: engine.PropInputFilterEnabled, Kind: engine.KindInt,
			Get: func(obj any) engine.Value {
				if obj.(holder).pipeline().filterEnabled {
					return engine.IntValue(1)
				}
				return engine.IntValue(0)
			},
			Set: func(obj any, v engine.Value) error {
				obj.(holder).pipeline().filterEnabled = v.I != 0
				return nil
			},
		},
		{
			ID: engine.PropInputFilterCutoff, Kind: engine.KindDouble, Min: 20, Max: 20000,
			Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(holder).pipeline().filterCutoff) },
			Set: func(obj any, v engine.Value) error {
				b := obj.(holder).pipeline()
				b.filterCutoff = v.D
				b.filter.Configure(dsp.DesignLowpass(engine.SampleRate, v.D, 0.707))
				return nil
			},
		},
	}
}

var effectPropertyTable = engine.NewPropertyTable(effectSharedSpecs())

// holder is implemented by every effect, exposing its shared pipeline
// state to effectPropertyTable's generic accessors.
type holder interface {
	pipeline() *base
}

// base holds the state shared by every global effect: the input
// accumulation buffer routed sends land in, the input biquad filter
// (spec §3's "input biquad filter, often a lowpass"), and the wet-output
// gain fader.
type base struct {
	ctx     *engine.Context
	input   [dsp.BlockSize * channels]float32
	scratch [dsp.BlockSize * channels]float32
	reader  *router.ReaderHandle
	aliveFn func() bool

	filter        *dsp.Biquad
	filterEnabled bool
	filterCutoff  float64

	gain      *dsp.Fader
	blockTime uint64
}

func newBase(ctx *engine.Context) *base {
	b := &base{ctx: ctx, filterEnabled: true, filterCutoff: 2000, gain: dsp.NewFader(1)}
	b.filter = dsp.NewBiquad(channels)
	b.filter.Configure(dsp.DesignLowpass(engine.SampleRate, b.filterCutoff, 0.707))
	b.reader = router.NewReaderHandle(b.input[:], channels, func() bool {
		return b.aliveFn != nil && b.aliveFn()
	})
	return b
}

// SetAlive wires the effect's liveness check once its own weak
// self-reference exists (spec §9's "weak endpoints" — the reader handle
// is built before the effect has been wrapped in a Shared[T], so its
// aliveness closure is filled in after the fact, mirroring the
// generator packages' SetHandle two-phase pattern).
func (b *base) SetAlive(fn func() bool) { b.aliveFn = fn }

// Reader returns the routing identity sources connect sends to (spec
// §4.7).
func (b *base) Reader() *router.ReaderHandle { return b.reader }

// consumeInput copies the block's routed-in signal (running it through the
// input filter when enabled) into dst, then zeroes the accumulation buffer
// so the next block's sends start from silence.
func (b *base) consumeInput(dst []float32) {
	if b.filterEnabled {
		b.filter.Process(b.input[:], dst, false)
	} else {
		copy(dst, b.input[:])
	}
	for i := range b.input {
		b.input[i] = 0
	}
}

// deliver applies the wet-output gain fader to wet (channels-wide,
// BlockSize frames) and sums the result into the engine's master bus,
// channel-mixed to the context's negotiated output count (spec §4.10 step
// 7: "sum panner bank output, direct buffer, and effect outputs").
func (b *base) deliver(blockTime uint64, wet []float32) {
	gained := b.scratch[:len(wet)]
	b.gain.Drive(blockTime, func(i int, v float64) {
		g := float32(v)
		base := i * channels
		for c := 0; c < channels; c++ {
			gained[base+c] = wet[base+c] * g
		}
	})
	master := b.ctx.Master()
	mixChannels(master, gained, channels, b.ctx.Channels())
}

// mixChannels channel-mixes src additively into dst, mirroring the same
// upmix/downmix rule used throughout the engine (spec §4.9).
func mixChannels(dst, src []float32, srcChannels, dstChannels int) {
	frames := len(src) / srcChannels
	for i := 0; i < frames; i++ {
		srcBase := i * srcChannels
		dstBase := i * dstChannels
		switch {
		case srcChannels == dstChannels:
			for c := 0; c < dstChannels; c++ {
				dst[dstBase+c] += src[srcBase+c]
			}
		case srcChannels == 1:
			for c := 0; c < dstChannels; c++ {
				dst[dstBase+c] += src[srcBase]
			}
		case dstChannels == 1:
			var sum float32
			for c := 0; c < srcChannels; c++ {
				sum += src[srcBase+c]
			}
			dst[dstBase] += sum / float32(srcChannels)
		default:
			n := srcChannels
			if dstChannels < n {
				n = dstChannels
			}
			for c := 0; c < n; c++ {
				dst[dstBase+c] += src[srcBase+c]
			}
		}
	}
}
