// SPDX-License-Identifier: EPL-2.0

package effect

import (
	"github.com/auralengine/aural/dsp"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/router"
)

const echoMaxDelaySeconds = 5
const echoMaxDelaySamples = engine.SampleRate * echoMaxDelaySeconds

// EchoTap is one independently delayed, independently gained read from the
// echo's shared stereo delay line (grounded on
// original_source/src/effects/echo.cpp's InternalEchoTapConfig: a variable
// number of taps read the same line at different offsets and gains).
type EchoTap struct {
	DelaySamples int
	GainL, GainR float64
}

// Echo is a stereo multi-tap delay effect. Input is mixed to stereo,
// written into a five-second ring buffer, and every configured tap reads
// it back at its own delay and per-channel gain (spec §4.9's "echo delay
// line").
type Echo struct {
	base *base

	line     []float32 // interleaved L/R ring, echoMaxDelaySamples frames
	writePos int

	taps           []EchoTap
	pendingTaps    []EchoTap
	hasPendingTaps bool

	dry, wet [dsp.BlockSize * channels]float32
}

// NewEcho builds an echo effect value with no taps configured (silent
// until SetTaps is called). Callers wrap it in a Shared[Echo] to register
// it with the engine.
func NewEcho(ctx *engine.Context) Echo {
	return Echo{
		base: newBase(ctx),
		line: make([]float32, echoMaxDelaySamples*2),
	}
}

func (e *Echo) pipeline() *base                { return e.base }
func (e *Echo) SetAlive(fn func() bool)        { e.base.SetAlive(fn) }
func (e *Echo) Reader() *router.ReaderHandle   { return e.base.Reader() }
func (e *Echo) SetProperty(id int, v engine.Value) error { return effectPropertyTable.Set(e, id, v) }
func (e *Echo) GetProperty(id int) (engine.Value, error) { return effectPropertyTable.Get(e, id) }

// SetTaps replaces the tap configuration, taking effect on the next Tick
// with a one-block fade-in to avoid an audible click (grounded on
// echo.cpp's runEffectInternal<FADE_IN, ...> template parameter). A
// variable-length tap list has no place in PropertySpec's fixed-kind value
// union, so this is a dedicated typed setter rather than a generic
// property, the same exclusion applied to handle-kind properties.
func (e *Echo) SetTaps(taps []EchoTap) {
	cfg := make([]EchoTap, len(taps))
	copy(cfg, taps)
	e.pendingTaps = cfg
	e.hasPendingTaps = true
}

// Tick consumes this block's routed-in signal, writes it into the delay
// line, sums every tap's delayed read into the wet output, and delivers
// the result into the engine's master bus.
func (e *Echo) Tick(blockTime uint64) {
	e.base.blockTime = blockTime
	e.base.consumeInput(e.dry[:])

	fadeIn := false
	if e.hasPendingTaps {
		e.taps = e.pendingTaps
		e.pendingTaps = nil
		e.hasPendingTaps = false
		fadeIn = true
	}

	lineLen := len(e.line) / 2
	for i := 0; i < dsp.BlockSize; i++ {
		idx := (e.writePos + i) % lineLen
		e.line[idx*2] = e.dry[i*channels]
		e.line[idx*2+1] = e.dry[i*channels+1]
	}

	for i := 0; i < dsp.BlockSize; i++ {
		var accL, accR float32
		for _, t := range e.taps {
			readIdx := (((e.writePos+i-t.DelaySamples)%lineLen)+lineLen) % lineLen
			accL += e.line[readIdx*2] * float32(t.GainL)
			accR += e.line[readIdx*2+1] * float32(t.GainR)
		}
		if fadeIn {
			g := float32(i) / float32(dsp.BlockSize)
			accL *= g
			accR *= g
		}
		e.wet[i*channels] = accL
		e.wet[i*channels+1] = accR
	}
	e.writePos = (e.writePos + dsp.BlockSize) % lineLen

	e.base.deliver(blockTime, e.wet[:])
}
