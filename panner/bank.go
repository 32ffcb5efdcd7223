// SPDX-License-Identifier: EPL-2.0

package panner

// Bank owns every source's panner lane and mixes them into the engine's
// master bus once per block. It has no dependency on the engine package:
// the engine holds a *Bank, not the other way around.
type Bank struct {
	sampleRate float64
	lanes      []*Lane
}

// NewBank creates an empty panner bank for the given output sample rate,
// used by the HRTF strategy's ITD calculation.
func NewBank(sampleRate float64) *Bank {
	return &Bank{sampleRate: sampleRate}
}

// AllocateLane reserves a lane for a source under the given strategy. The
// returned Lane is valid until passed to ReleaseLane.
func (b *Bank) AllocateLane(strategy Strategy) *Lane {
	l := newLane(strategy, b.sampleRate)
	b.lanes = append(b.lanes, l)
	return l
}

// ReleaseLane returns a lane to the bank. It is a no-op if the lane is not
// currently allocated (e.g. already released).
func (b *Bank) ReleaseLane(l *Lane) {
	for i, x := range b.lanes {
		if x == l {
			b.lanes = append(b.lanes[:i], b.lanes[i+1:]...)
			return
		}
	}
}

// LaneCount reports how many lanes are currently allocated.
func (b *Bank) LaneCount() int { return len(b.lanes) }

// Mix spatializes every lane's current input and sums the result into dst,
// a dstChannels-wide interleaved buffer of BlockSize frames, upmixing or
// downmixing the bank's internal stereo output to match dst's channel
// count with the same rules used elsewhere in the engine (spec §4.9): mono
// destinations get the average of both channels, wider destinations get the
// stereo pair broadcast into the first two channels and silence elsewhere.
func (b *Bank) Mix(dst []float32, dstChannels int) {
	var master [BlockSize * 2]float32
	for _, l := range b.lanes {
		l.mixInto(master[:])
	}
	upmixStereoInto(dst, master[:], dstChannels)
}

func upmixStereoInto(dst []float32, stereo []float32, dstChannels int) {
	frames := BlockSize
	switch dstChannels {
	case 1:
		for i := 0; i < frames; i++ {
			dst[i] += (stereo[2*i] + stereo[2*i+1]) * 0.5
		}
	case 2:
		for i := 0; i < frames*2; i++ {
			dst[i] += stereo[i]
		}
	default:
		for i := 0; i < frames; i++ {
			base := i * dstChannels
			dst[base] += stereo[2*i]
			dst[base+1] += stereo[2*i+1]
		}
	}
}
