// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"runtime"
	"sync/atomic"
)

// DeletionRecord is a destructor run deferred to a known-safe iteration
// (spec §4.1).
type DeletionRecord struct {
	Iteration  uint64
	Destructor func()
}

// DeletionQueue is the MPSC ring that moves destructor work off the audio
// thread. Any goroutine may Enqueue; only the audio thread may call Drain.
type DeletionQueue struct {
	iteration    atomic.Uint64
	deleteDirect atomic.Bool
	inProgress   atomic.Int64

	ch chan DeletionRecord
}

// NewDeletionQueue creates an empty deletion queue.
func NewDeletionQueue() *DeletionQueue {
	return &DeletionQueue{ch: make(chan DeletionRecord, deletionRingCapacity)}
}

// CurrentIteration returns the block iteration a newly enqueued record
// should be tagged with.
func (q *DeletionQueue) CurrentIteration() uint64 { return q.iteration.Load() }

// SetIteration advances the queue's notion of the current block. The audio
// thread calls this once per block before draining.
func (q *DeletionQueue) SetIteration(n uint64) { q.iteration.Store(n) }

// SetDeleteDirectly switches to synchronous, inline deletion, used once
// shutdown has guaranteed no audio-thread iteration can still be mid-block.
func (q *DeletionQueue) SetDeleteDirectly(v bool) { q.deleteDirect.Store(v) }

// Enqueue submits a destructor tagged with iteration. If delete-directly
// is set it runs inline instead. Safe from any goroutine.
func (q *DeletionQueue) Enqueue(iteration uint64, destructor func()) {
	q.inProgress.Add(1)
	defer q.inProgress.Add(-1)

	if q.deleteDirect.Load() {
		destructor()
		return
	}
	select {
	case q.ch <- DeletionRecord{Iteration: iteration, Destructor: destructor}:
	default:
		// The ring is full. Running the destructor inline stalls this
		// caller, never the audio thread, and avoids leaking whatever
		// resource it owns — the queue only fills this deep under
		// sustained pathological churn, not in normal operation.
		destructor()
	}
}

// Drain runs every queued destructor whose recorded iteration is strictly
// behind currentBlockTime, up to budget records, leaving the rest (and any
// record too recent to be safe) for a later call. Must only be called from
// the audio thread.
func (q *DeletionQueue) Drain(currentBlockTime uint64, budget int) {
	for i := 0; i < budget; i++ {
		select {
		case rec := <-q.ch:
			if rec.Iteration >= currentBlockTime {
				q.ch <- rec
				return
			}
			rec.Destructor()
		default:
			return
		}
	}
}

// WaitIdle spins until no Enqueue call is in flight, so a final shutdown
// drain is guaranteed to observe every record a concurrent user thread
// might still be submitting.
func (q *DeletionQueue) WaitIdle() {
	for q.inProgress.Load() > 0 {
		runtime.Gosched()
	}
}
