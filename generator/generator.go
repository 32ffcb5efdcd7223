// SPDX-License-Identifier: EPL-2.0

package generator

// Generator is the shared capability every variant exposes to a source's
// fill pipeline: a declared channel count and a block-filling step.
// Channels returning 0 tells the caller to skip this generator for the
// block (spec §4.8 — e.g. a streaming generator not yet primed).
type Generator interface {
	Channels() int
	Fill(dst []float32, blockTime uint64)
}
