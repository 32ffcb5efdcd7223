// SPDX-License-Identifier: EPL-2.0

package device

import "context"

// HeadlessBackend is a caller-driven substitute for a real output device:
// nothing plays on its own, and blocks are rendered only when Pull is
// called explicitly. Used by tests and by cmd/auralctl's offline-render
// mode (spec §4.13).
type HeadlessBackend struct {
	channels int
	pull     PullFunc
}

// NewHeadlessBackend creates a headless backend rendering interleaved
// blocks of the given channel count.
func NewHeadlessBackend(channels int) *HeadlessBackend {
	return &HeadlessBackend{channels: channels}
}

// Start records pull for later use by Pull. No goroutine is spun up;
// blocks only render when the caller asks for one.
func (b *HeadlessBackend) Start(ctx context.Context, pull PullFunc) error {
	b.pull = pull
	return nil
}

// Stop clears the stored pull function.
func (b *HeadlessBackend) Stop() error {
	b.pull = nil
	return nil
}

func (b *HeadlessBackend) Channels() int { return b.channels }

// Pull renders exactly one block into dst by calling through to the
// PullFunc supplied to Start. Panics if Start was never called, the same
// contract a driven-by-mistake real backend would fail under.
func (b *HeadlessBackend) Pull(dst []float32) {
	b.pull(dst)
}
