package dsp

// Fader linearly ramps a scalar value across exactly one block whenever its
// target changes (spec §4.5). This bounds zipper noise without needing
// per-sample property writes: SetValue retargets, Drive interpolates.
type Fader struct {
	tStart, tEnd uint64
	vStart, vEnd float64
}

// NewFader creates a fader already settled at v.
func NewFader(v float64) *Fader {
	return &Fader{vStart: v, vEnd: v}
}

// SetValue retargets the fader to vNew, ramping from whatever value is
// current at tNow across exactly one block.
func (f *Fader) SetValue(tNow uint64, vNew float64) {
	cur := f.ValueAt(tNow)
	f.tStart = tNow
	f.vStart = cur
	f.tEnd = tNow + 1
	f.vEnd = vNew
}

// ValueAt returns the interpolated value at block time t without advancing
// any per-sample state; used by callers (e.g. the router) that need the
// fader's value at both the start and end of a block to decide whether a
// crossfade is needed this block.
func (f *Fader) ValueAt(t uint64) float64 {
	if t >= f.tEnd || f.tStart == f.tEnd {
		return f.vEnd
	}
	if t <= f.tStart {
		return f.vStart
	}
	span := float64(f.tEnd - f.tStart)
	pos := float64(t - f.tStart)
	return f.vStart + (f.vEnd-f.vStart)*(pos/span)
}

// Drive invokes cb once per sample in the current block with the
// interpolated gain, where tNow is the block time the current block
// corresponds to (i.e. the ramp spans [tNow, tNow+1)).
func (f *Fader) Drive(tNow uint64, cb func(sampleIndex int, value float64)) {
	vStart := f.ValueAt(tNow)
	vEnd := f.ValueAt(tNow + 1)
	if vStart == vEnd {
		for i := 0; i < BlockSize; i++ {
			cb(i, vStart)
		}
		return
	}
	for i := 0; i < BlockSize; i++ {
		w2 := float64(i) / float64(BlockSize)
		w1 := 1 - w2
		cb(i, vStart*w1+vEnd*w2)
	}
}
