// SPDX-License-Identifier: EPL-2.0

package engine

import "sync/atomic"

// control is the shared state behind every Shared[T]/Weak[T] pair cloned
// from a given root. It is the Go analog of a C++ shared_ptr/weak_ptr
// control block, except deletion timing is driven by block iteration
// rather than by the last reference simply going out of scope: dropping
// the last strong reference enqueues a deletion record instead of running
// a destructor inline (spec §3, §4.1).
type control[T any] struct {
	value     T
	strong    atomic.Int64
	destroyed atomic.Bool
	queue     *DeletionQueue
	onDrop    func(*T)
}

// Shared is a strong, deferred-destruction reference to a T, analogous to
// a C++ shared_ptr but whose destructor runs on the audio thread during a
// later DeletionQueue.Drain rather than synchronously when the last
// reference drops.
type Shared[T any] struct {
	ctrl *control[T]
}

// NewShared allocates a new T under deferred-destruction ownership. onDrop,
// if non-nil, runs once the value's deletion record has been drained —
// the place to release any resource the value itself owns (file handles,
// pooled buffers). queue is typically the owning Context's DeletionQueue.
func NewShared[T any](queue *DeletionQueue, value T, onDrop func(*T)) Shared[T] {
	c := &control[T]{value: value, queue: queue, onDrop: onDrop}
	c.strong.Store(1)
	return Shared[T]{ctrl: c}
}

// Valid reports whether s refers to anything (the zero Shared[T] does not).
func (s Shared[T]) Valid() bool { return s.ctrl != nil }

// Get returns a pointer to the owned value. Only the audio thread may
// dereference it for mutation; readers on other threads must go through
// the command ring's synchronous Call.
func (s Shared[T]) Get() *T { return &s.ctrl.value }

// Clone returns a new strong reference sharing the same control block,
// incrementing the strong count.
func (s Shared[T]) Clone() Shared[T] {
	s.ctrl.strong.Add(1)
	return s
}

// Downgrade returns a weak reference that must be upgraded before use.
func (s Shared[T]) Downgrade() Weak[T] { return Weak[T]{ctrl: s.ctrl} }

// Release drops this strong reference. When the count reaches zero, a
// deletion record is enqueued tagged with the queue's current iteration
// rather than running the destructor immediately: the audio thread may
// still be mid-block, iterating a raw pointer into this value, and must
// not see it vanish underneath it (spec §3 invariant, §4.1).
func (s Shared[T]) Release() {
	if s.ctrl == nil {
		return
	}
	if s.ctrl.strong.Add(-1) == 0 {
		ctrl := s.ctrl
		iteration := ctrl.queue.CurrentIteration()
		ctrl.queue.Enqueue(iteration, func() {
			ctrl.destroyed.Store(true)
			if ctrl.onDrop != nil {
				ctrl.onDrop(&ctrl.value)
			}
		})
	}
}

// Weak is a non-owning reference that must be upgraded to a Shared[T]
// before the value can be read or mutated, and that reports itself dead
// once the owning Shared[T] chain has fully dropped and the deletion
// record has run.
type Weak[T any] struct {
	ctrl *control[T]
}

// Upgrade attempts to obtain a new strong reference. It fails once the
// value's destructor has run (or once every strong reference is gone and
// none remain to race the upgrade against).
func (w Weak[T]) Upgrade() (Shared[T], bool) {
	if w.ctrl == nil || w.ctrl.destroyed.Load() {
		return Shared[T]{}, false
	}
	for {
		cur := w.ctrl.strong.Load()
		if cur <= 0 {
			return Shared[T]{}, false
		}
		if w.ctrl.strong.CompareAndSwap(cur, cur+1) {
			return Shared[T]{ctrl: w.ctrl}, true
		}
	}
}

// Identity returns a comparable value unique to the control block this
// weak reference points at, so callers can deduplicate or remove a
// specific reference from a slice of liveRef-style adapters without
// reaching into this package's internals.
func (w Weak[T]) Identity() any { return w.ctrl }

// Alive reports whether the value can currently be upgraded, without
// actually taking a strong reference. Suitable as the liveness closure
// router.ReaderHandle and the engine's live-source/effect lists need.
func (w Weak[T]) Alive() bool {
	return w.ctrl != nil && !w.ctrl.destroyed.Load() && w.ctrl.strong.Load() > 0
}
