// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"io"

	"github.com/auralengine/aural/audio"
	"github.com/auralengine/aural/engine"
)

const streamingRingCapacity = 8

// StreamingGenerator pulls from a decoder in a helper goroutine, staying
// a fixed number of blocks ahead in an spscRing; the audio thread reads
// from the ring and substitutes silence on underrun rather than blocking
// (spec §4.8).
type StreamingGenerator struct {
	src      audio.Source
	events   *engine.EventQueue
	self     engine.Handle
	channels int

	ring *spscRing
	stop chan struct{}
}

// NewStreamingGenerator starts the helper goroutine decoding from src
// immediately; Fill will substitute silence until the first block lands.
// The returned value's ring and stop channel are shared with the helper
// goroutine (they're reference types), so it may be freely copied — e.g.
// into a Shared[StreamingGenerator] — without disturbing the goroutine,
// which is why "finished" travels with each decodedBlock instead of
// living in a field the goroutine and the copy would otherwise race on.
func NewStreamingGenerator(src audio.Source, events *engine.EventQueue) StreamingGenerator {
	g := StreamingGenerator{
		src:      src,
		events:   events,
		channels: src.Channels(),
		ring:     newSPSCRing(streamingRingCapacity),
		stop:     make(chan struct{}),
	}
	go g.decodeLoop()
	return g
}

// SetHandle records this generator's own handle for event tagging.
func (g *StreamingGenerator) SetHandle(h engine.Handle) { g.self = h }

func (g *StreamingGenerator) decodeLoop() {
	// send waits for ring space but gives up once Close has run, so a
	// helper blocked on a full ring still exits.
	send := func(blk decodedBlock) bool {
		select {
		case g.ring.ch <- blk:
			return true
		case <-g.stop:
			return false
		}
	}
	frameBytes := g.channels
	blockFloats := engine.BlockSize * frameBytes
	for {
		select {
		case <-g.stop:
			return
		default:
		}

		var blk decodedBlock
		blk.channels = g.channels
		buf := blk.frames[:blockFloats]
		read := 0
		for read < blockFloats {
			n, err := g.src.ReadSamples(buf[read:])
			read += n
			if err != nil {
				if err == io.EOF {
					blk.finished = true
					send(blk)
					return
				}
				// A decode error mid-stream degrades to silence from
				// here on rather than propagating off the helper
				// goroutine (spec §7: audio-thread-adjacent failures
				// never cause a dropout).
				blk.finished = true
				send(blk)
				return
			}
			if n == 0 {
				break
			}
		}
		if !send(blk) {
			return
		}
	}
}

// Close stops the helper goroutine. Safe to call once the owning
// generator has been released.
func (g *StreamingGenerator) Close() {
	close(g.stop)
	_ = g.src.Close()
}

// Channels reports the source's channel count.
func (g *StreamingGenerator) Channels() int { return g.channels }

// Fill copies one block from the ring, pushing a FINISHED event along with
// the final block the helper decoded; on an empty ring it emits silence.
func (g *StreamingGenerator) Fill(dst []float32, blockTime uint64) {
	blk, ok := g.ring.tryPop()
	if !ok {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	copy(dst, blk.frames[:engine.BlockSize*g.channels])
	if blk.finished && g.events != nil {
		g.events.Push(engine.Event{Kind: engine.EventFinished, Generator: g.self})
	}
}
