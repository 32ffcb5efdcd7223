// SPDX-License-Identifier: EPL-2.0

package source

import (
	"github.com/auralengine/aural/dsp"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/generator"
)

// generatorPtr constrains PT to be a pointer to T implementing
// generator.Generator, the same pointer-receiver capability pattern
// engine.TickablePtr uses for sources and effects (engine/tick.go).
type generatorPtr[T any] interface {
	*T
	generator.Generator
}

// genRef adapts a weak generator reference into the untyped
// liveness-and-fill pair a source's generator list needs, so that list
// can hold buffer, streaming, and noise generators side by side without
// this package needing a sum type.
type genRef struct {
	identity any
	alive    func() bool
	fill     func(dst []float32, blockTime uint64) int
}

func newGenRef[T any, PT generatorPtr[T]](w engine.Weak[T]) genRef {
	return genRef{
		identity: w.Identity(),
		alive:    w.Alive,
		fill: func(dst []float32, blockTime uint64) int {
			s, ok := w.Upgrade()
			if !ok {
				return 0
			}
			defer s.Release()
			g := PT(s.Get())
			channels := g.Channels()
			if channels == 0 {
				return 0
			}
			g.Fill(dst[:engine.BlockSize*channels], blockTime)
			return channels
		},
	}
}

// base holds the pipeline state shared by every source variant: its
// generator list, accumulation buffer, gain fader, and pause flag (spec
// §4.9's "shared pipeline").
type base struct {
	generators []genRef
	accum      [engine.BlockSize * engine.MaxChannels]float32
	scratch    [engine.BlockSize * engine.MaxChannels]float32
	gain       *dsp.Fader
	channels   int
	paused     bool
}

func newBase(channels int) *base {
	if channels < 1 {
		channels = 1
	}
	if channels > engine.MaxChannels {
		channels = engine.MaxChannels
	}
	return &base{channels: channels, gain: dsp.NewFader(1)}
}

// holder is implemented by every source variant, exposing its shared
// pipeline state so the generic AddGenerator/RemoveGenerator entry points
// below can operate without a per-variant method for each generator type.
type holder interface {
	pipeline() *base
}

// addGenerator appends w's adapted reference in insertion order, skipping
// it if an identical weak reference is already present (spec §3: a
// source's generator list has "duplicates ignored").
func addGenerator[T any, PT generatorPtr[T]](b *base, w engine.Weak[T]) {
	id := w.Identity()
	for _, g := range b.generators {
		if g.identity == id {
			return
		}
	}
	b.generators = append(b.generators, newGenRef[T, PT](w))
}

// removeGenerator drops the first generator reference matching w's
// identity, leaving the rest of the list order-preserved.
func removeGenerator[T any](b *base, w engine.Weak[T]) {
	id := w.Identity()
	for i, g := range b.generators {
		if g.identity == id {
			b.generators = append(b.generators[:i], b.generators[i+1:]...)
			return
		}
	}
}

// AddGenerator appends w to src's generator list in insertion order,
// ignoring a duplicate of an already-present reference (spec §3).
func AddGenerator[T any, PT generatorPtr[T]](src holder, w engine.Weak[T]) {
	addGenerator[T, PT](src.pipeline(), w)
}

// RemoveGenerator drops w from src's generator list if present.
func RemoveGenerator[T any](src holder, w engine.Weak[T]) {
	removeGenerator[T](src.pipeline(), w)
}

// fill zeroes the accumulation buffer, runs every live generator into it
// with channel-mixing (pruning dead references in place), then applies
// the gain fader, and returns the result. A paused source (or one with no
// live generators) produces silence.
func (b *base) fill(blockTime uint64) []float32 {
	n := engine.BlockSize * b.channels
	accum := b.accum[:n]
	for i := range accum {
		accum[i] = 0
	}

	if !b.paused {
		live := b.generators[:0]
		for _, g := range b.generators {
			if !g.alive() {
				continue
			}
			if ch := g.fill(b.scratch[:], blockTime); ch > 0 {
				mixChannels(accum, b.scratch[:engine.BlockSize*ch], ch, b.channels)
			}
			live = append(live, g)
		}
		b.generators = live
	}

	b.gain.Drive(blockTime, func(i int, v float64) {
		g := float32(v)
		base := i * b.channels
		for c := 0; c < b.channels; c++ {
			accum[base+c] *= g
		}
	})
	return accum
}

// mixChannels channel-mixes src (BlockSize frames, srcChannels channels)
// additively into dst (BlockSize frames, dstChannels channels), mirroring
// the router's send-matrix rule (spec §4.9): mono broadcasts to every
// destination channel, N-to-mono averages, and a source wider than the
// destination folds every source channel into the destination at equal
// weight (channel c folds onto dst channel c % dstChannels) rather than
// dropping the channels past dstChannels.
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
		case srcChannels > dstChannels:
			for c := 0; c < srcChannels; c++ {
				dst[dstBase+c%dstChannels] += src[srcBase+c]
			}
		default:
			for c := 0; c < srcChannels; c++ {
				dst[dstBase+c] += src[srcBase+c]
			}
		}
	}
}
