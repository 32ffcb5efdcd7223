// SPDX-License-Identifier: EPL-2.0

// Package source implements the three source variants — direct, panned,
// and 3D positional — that compose a set of generators into the engine's
// output (spec §4.9). All three share the same fill pipeline (mix.go):
// zero an accumulation buffer, run every live generator into it with
// upmix/downmix channel rules, apply the gain fader, then deliver through
// the variant's own path (direct buffer, panner lane, or panner lane with
// a derived direction).
package source
