// SPDX-License-Identifier: EPL-2.0

// Package effect implements the engine's global effects: echo and FDN
// reverb. Every effect owns an input accumulation buffer that sources
// route audio into, an optional input biquad filter, and delivers its wet
// output directly into the engine's master bus (spec §4.9's "global
// effect" object, spec §4.10 step 6).
package effect
