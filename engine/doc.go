// SPDX-License-Identifier: EPL-2.0

// Package engine implements the realtime audio graph runtime: the handle
// table, the three lock-free queues (commands, properties, deletions), the
// data-driven property table, and the Context block loop that drives one
// audio thread (spec §3–§5, §4.10).
//
// engine depends only on the leaf packages dsp, panner, router, and
// buffer. It never imports source, generator, effect, or capi — those
// depend on engine, not the other way around — so heterogeneous live
// sources and effects are held as Tickable capability closures (see
// tick.go) rather than as concrete types.
package engine
