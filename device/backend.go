// SPDX-License-Identifier: EPL-2.0

package device

import "context"

// PullFunc renders exactly one interleaved block into dst (BlockSize
// frames by Channels() channels) and is called from whatever goroutine the
// backend drives its output from. It must not block or allocate — it is
// expected to be an engine.Context.RunBlock closure.
type PullFunc func(dst []float32)

// Backend is the output side of the engine: something that repeatedly
// calls a PullFunc and ships the result to real or simulated speakers.
// Both device/oto.go and device/headless.go implement it (spec §4.13).
type Backend interface {
	// Start begins pulling blocks until ctx is canceled or Stop is called.
	// OtoBackend spins its own playback goroutine; HeadlessBackend's
	// Start only stores pull, since blocks are pulled explicitly by the
	// caller.
	Start(ctx context.Context, pull PullFunc) error
	// Stop halts playback. Safe to call on a backend that was never
	// started.
	Stop() error
	// Channels reports the interleaved channel count blocks are rendered
	// at.
	Channels() int
}
