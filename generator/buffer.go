// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"github.com/auralengine/aural/buffer"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/utils"
)

var bufferPropertyTable = engine.NewPropertyTable([]engine.PropertySpec{
	{
		ID:   engine.PropLooping,
		Kind: engine.KindInt,
		Get: func(obj any) engine.Value {
			g := obj.(*BufferGenerator)
			if g.looping {
				return engine.IntValue(1)
			}
			return engine.IntValue(0)
		},
		Set: func(obj any, v engine.Value) error {
			obj.(*BufferGenerator).looping = v.I != 0
			return nil
		},
	},
	{
		ID: engine.PropPitchBend, Kind: engine.KindDouble, Min: 0, Max: 2,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*BufferGenerator).pitchBend) },
		Set: func(obj any, v engine.Value) error {
			obj.(*BufferGenerator).pitchBend = v.D
			return nil
		},
	},
})

// BufferGenerator reads from an owned decoded Buffer, with an optional
// loop point and pitch bend over the logical read cursor (spec §4.8).
type BufferGenerator struct {
	buf    *buffer.Buffer
	events *engine.EventQueue
	self   engine.Handle

	looping   bool
	pitchBend float64
	cursor    float64 // fractional frame position
	finished  bool
}

// NewBufferGenerator creates a generator over buf. events and self are
// used to tag LOOPED/FINISHED notifications with this generator's handle;
// self is set by SetHandle once the engine has allocated one. Returns a
// value so callers can wrap it directly in a Shared[BufferGenerator].
func NewBufferGenerator(buf *buffer.Buffer, events *engine.EventQueue) BufferGenerator {
	return BufferGenerator{buf: buf, events: events, pitchBend: 1}
}

// SetHandle records this generator's own handle, used to tag emitted
// events; the handle is only known after engine.Register runs.
func (g *BufferGenerator) SetHandle(h engine.Handle) { g.self = h }

func (g *BufferGenerator) SetProperty(id int, v engine.Value) error {
	return bufferPropertyTable.Set(g, id, v)
}

func (g *BufferGenerator) GetProperty(id int) (engine.Value, error) {
	return bufferPropertyTable.Get(g, id)
}

// Channels reports the owned buffer's channel count, or 0 if no buffer
// is attached yet.
func (g *BufferGenerator) Channels() int {
	if g.buf == nil {
		return 0
	}
	return g.buf.Channels()
}

// Fill resamples pitchBend*BlockSize logical source frames, via cubic
// interpolation over the fractional read cursor (spec §4.8), into
// exactly BlockSize destination frames. On wrap with looping enabled it
// emits LOOPED once per wraparound within the block, oldest first (spec
// §9); with looping disabled it emits FINISHED once and then emits
// silence for every subsequent call.
func (g *BufferGenerator) Fill(dst []float32, blockTime uint64) {
	channels := g.Channels()
	frames := g.buf.Frames()
	if frames == 0 || g.finished {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	for i := 0; i < engine.BlockSize; i++ {
		if g.cursor >= float64(frames) {
			if g.looping {
				g.cursor -= float64(frames)
				if g.events != nil {
					g.events.Push(engine.Event{Kind: engine.EventLooped, Generator: g.self})
				}
			} else {
				g.finished = true
				if g.events != nil {
					g.events.Push(engine.Event{Kind: engine.EventFinished, Generator: g.self})
				}
				for j := i * channels; j < len(dst); j++ {
					dst[j] = 0
				}
				return
			}
		}

		i0 := int(g.cursor)
		frac := g.cursor - float64(i0)

		im1 := i0 - 1
		if im1 < 0 {
			im1 = 0
		}
		i1 := i0 + 1
		i2 := i0 + 2
		if g.looping {
			im1 = ((im1 % frames) + frames) % frames
			i1 %= frames
			i2 %= frames
		} else {
			if i1 >= frames {
				i1 = frames - 1
			}
			if i2 >= frames {
				i2 = frames - 1
			}
			if i0 >= frames {
				i0 = frames - 1
			}
		}

		var p0, p1, p2, p3 [engine.MaxChannels]float32
		g.buf.Frame(im1, p0[:channels])
		g.buf.Frame(i0, p1[:channels])
		g.buf.Frame(i1, p2[:channels])
		g.buf.Frame(i2, p3[:channels])

		base := i * channels
		for c := 0; c < channels; c++ {
			dst[base+c] = utils.CubicInterpolate(p0[c], p1[c], p2[c], p3[c], float32(frac))
		}

		g.cursor += g.pitchBend
	}
}
