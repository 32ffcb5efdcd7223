// SPDX-License-Identifier: EPL-2.0

package engine

// Invokable is a type-erased closure queued for execution on the audio
// thread (spec §4.2).
type Invokable func()

// CommandRing is the MPSC ring carrying invokables from any number of
// user threads to the single audio thread.
type CommandRing struct {
	ch       chan Invokable
	headless bool
}

// NewCommandRing creates an empty command ring.
func NewCommandRing() *CommandRing {
	return &CommandRing{ch: make(chan Invokable, commandRingCapacity)}
}

// SetHeadless switches Call to run its closure inline on the caller's own
// goroutine instead of round-tripping through the ring, matching spec
// §4.2's "in headless mode, waitable calls are inlined on the caller's
// thread."
func (r *CommandRing) SetHeadless(v bool) { r.headless = v }

// Enqueue submits a fire-and-forget invokable. It never blocks: on a full
// ring it reports failure rather than dropping silently, so a caller that
// must not lose the command can retry or fall back to Call.
func (r *CommandRing) Enqueue(fn Invokable) bool {
	select {
	case r.ch <- fn:
		return true
	default:
		return false
	}
}

// Call runs fn on the audio thread and blocks until it completes, or runs
// it inline in headless mode.
func (r *CommandRing) Call(fn func()) {
	if r.headless {
		fn()
		return
	}
	done := make(chan struct{})
	r.ch <- Invokable(func() {
		fn()
		close(done)
	})
	<-done
}

// ReferencingCall enqueues fn for execution on the audio thread, running
// each releaser afterward. Callers capture their strong references as
// closures before calling (ordinary Go closure semantics already do the
// "capture at enqueue" spec §4.2 describes) and pass the matching
// Shared[T].Release as a releaser, so releases happen through the
// deletion queue rather than synchronously on the audio thread.
func (r *CommandRing) ReferencingCall(fn func(), releasers ...func()) bool {
	return r.Enqueue(func() {
		fn()
		for _, release := range releasers {
			release()
		}
	})
}

// Drain invokes up to budget queued commands. Must only be called from
// the audio thread.
func (r *CommandRing) Drain(budget int) {
	for i := 0; i < budget; i++ {
		select {
		case fn := <-r.ch:
			fn()
		default:
			return
		}
	}
}
