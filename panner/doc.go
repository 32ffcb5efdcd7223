// SPDX-License-Identifier: EPL-2.0

// Package panner implements the panner bank: shared lane allocation plus the
// two spatialization strategies sources can claim a lane under (spec §4.6).
//
// Stereo lanes do an equal-power pan from a scalar or an azimuth; HRTF lanes
// apply a fractional interaural delay (Woodworth ITD, clamped to
// HRTFMaxITD) and a per-ear spectral-smoothing filter, crossfading over
// CrossfadeSamples whenever the pan direction changes. The "HRIR dataset"
// here is a procedurally synthesized, continuous function of azimuth and
// elevation rather than a measured table — spec §9 explicitly allows any
// dataset with matching resolution, and a continuous function makes the
// wraparound and directional-correctness properties (spec §8) hold by
// construction rather than by table interpolation.
package panner
