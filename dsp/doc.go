// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the per-block signal-processing primitives shared by
// every source and effect: a crossfading IIR biquad filter and a linear gain
// fader. Both are designed to run entirely on the audio thread: no
// allocation, no locking, fixed per-block cost.
package dsp
