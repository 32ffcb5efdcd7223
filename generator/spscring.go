// SPDX-License-Identifier: EPL-2.0

package generator

import "github.com/auralengine/aural/engine"

// decodedBlock is one helper-thread-decoded block, channel count included
// since a decoder may change its mind about channel count mid-stream.
type decodedBlock struct {
	channels int
	finished bool
	frames   [engine.BlockSize * engine.MaxChannels]float32
}

// spscRing is a small bounded single-producer/single-consumer ring of
// decoded blocks: the helper goroutine produces, the audio thread
// consumes. A Go channel already gives SPSC FIFO semantics without extra
// synchronization, so it stands in directly for the CAS ring the teacher
// runtime would use in a systems language (spec §4.8).
type spscRing struct {
	ch chan decodedBlock
}

func newSPSCRing(capacity int) *spscRing {
	return &spscRing{ch: make(chan decodedBlock, capacity)}
}

// push blocks the producer if the ring is full — the helper goroutine
// backs off naturally rather than decoding arbitrarily far ahead.
func (r *spscRing) push(b decodedBlock) {
	r.ch <- b
}

// tryPop returns false immediately if nothing is ready, which the audio
// thread treats as an underrun and substitutes silence for.
func (r *spscRing) tryPop() (decodedBlock, bool) {
	select {
	case b := <-r.ch:
		return b, true
	default:
		return decodedBlock{}, false
	}
}
