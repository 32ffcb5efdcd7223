// SPDX-License-Identifier: EPL-2.0

// Package buffer stores fully decoded PCM audio for playback by buffer
// generators.
//
// A Buffer holds interleaved float32 samples in fixed-size chunks ("pages")
// rather than one flat allocation. Chunking bounds the worst-case allocation
// size during decode, lets chunks be reused across buffers of the same
// length, and keeps seek cost O(1) via index arithmetic instead of a scan.
//
// Buffers are built on a user thread, never on the audio thread: Decode runs
// an audio.Source to completion and pages the result. Once built, a Buffer is
// immutable and safe to read concurrently from any number of generators.
package buffer
