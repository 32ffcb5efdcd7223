package dsp

import (
	"math"
	"testing"
)

func TestBiquad_IdentityPassesThroughUnchanged(t *testing.T) {
	t.Parallel()

	b := NewBiquad(1)
	in := make([]float32, BlockSize)
	for i := range in {
		in[i] = float32(i%7) / 7
	}
	out := make([]float32, BlockSize)
	b.Process(in, out, false)

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d: got %v, want %v (identity filter)", i, out[i], in[i])
		}
	}
}

func TestBiquad_ReconfigureToSameCoefficientsIsNoOp(t *testing.T) {
	t.Parallel()

	c := DesignLowpass(44100, 1000, 0.707)

	in := make([]float32, BlockSize*4)
	for i := range in {
		in[i] = float32(i%11)/11 - 0.5
	}

	reference := NewBiquad(1)
	reference.Configure(c)

	reconfigured := NewBiquad(1)
	reconfigured.Configure(c)

	refOut := make([]float32, len(in))
	gotOut := make([]float32, len(in))

	// Run both through an identical first block (the initial crossfade from
	// the wire filter), then reconfigure only "reconfigured" to the same
	// coefficients mid-stream, after real filter state has accumulated.
	reference.Process(in[:BlockSize], refOut[:BlockSize], false)
	reconfigured.Process(in[:BlockSize], gotOut[:BlockSize], false)

	reconfigured.Configure(c) // reconfigure to identical coefficients mid-stream

	for block := 1; block < 4; block++ {
		lo, hi := block*BlockSize, (block+1)*BlockSize
		reference.Process(in[lo:hi], refOut[lo:hi], false)
		reconfigured.Process(in[lo:hi], gotOut[lo:hi], false)
	}

	for i := range in {
		diff := refOut[i] - gotOut[i]
		if diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("sample %d diverged after no-op reconfigure: ref=%v got=%v", i, refOut[i], gotOut[i])
		}
	}
}

func TestBiquad_AddFlagSumsInsteadOfOverwriting(t *testing.T) {
	t.Parallel()

	b := NewBiquad(1)
	in := make([]float32, BlockSize)
	for i := range in {
		in[i] = 1
	}
	out := make([]float32, BlockSize)
	for i := range out {
		out[i] = 2
	}

	b.Process(in, out, true)

	for i := range out {
		if out[i] != 3 {
			t.Fatalf("sample %d: got %v, want 3 (2 existing + 1 filtered input)", i, out[i])
		}
	}
}

func TestBiquad_LowpassAttenuatesHighFrequency(t *testing.T) {
	t.Parallel()

	const sr = 44100.0
	b := NewBiquad(1)
	b.Configure(DesignLowpass(sr, 1000, 0.707))

	// skip the crossfade block, then measure steady state
	warm := make([]float32, BlockSize)
	b.Process(warm, make([]float32, BlockSize), false)

	highFreqEnergy := measureToneEnergy(t, b, sr, 8000)
	lowFreqEnergy := measureToneEnergy(t, b, sr, 200)

	if highFreqEnergy >= lowFreqEnergy {
		t.Fatalf("lowpass did not attenuate: high=%v low=%v", highFreqEnergy, lowFreqEnergy)
	}
}

func measureToneEnergy(t *testing.T, _ *Biquad, sr, freq float64) float64 {
	t.Helper()
	b := NewBiquad(1)
	b.Configure(DesignLowpass(sr, 1000, 0.707))
	// settle the crossfade block
	b.Process(make([]float32, BlockSize), make([]float32, BlockSize), false)

	in := make([]float32, BlockSize*4)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sr))
	}
	out := make([]float32, len(in))
	for blk := 0; blk < 4; blk++ {
		lo, hi := blk*BlockSize, (blk+1)*BlockSize
		b.Process(in[lo:hi], out[lo:hi], false)
	}

	var energy float64
	for _, s := range out[BlockSize:] { // skip first block to avoid transient
		energy += float64(s) * float64(s)
	}
	return energy
}
