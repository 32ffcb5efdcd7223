// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync/atomic"

	"github.com/auralengine/aural/panner"
	"github.com/auralengine/aural/router"
)

// ListenerPose is the listener's position and orientation (forward and up
// 3-vectors), from which 3D sources derive azimuth/elevation each block.
type ListenerPose struct {
	Position [3]float64
	Forward  [3]float64
	Up       [3]float64
}

func defaultListenerPose() ListenerPose {
	return ListenerPose{
		Position: [3]float64{0, 0, 0},
		Forward:  [3]float64{0, 1, 0},
		Up:       [3]float64{0, 0, 1},
	}
}

// Context is the engine proper: the process-wide-per-device object owning
// the command ring, property ring, deletion queue, handle table, source
// and global-effect sets, panner bank, router, listener pose, and the
// per-block accumulation buffers (spec §3).
type Context struct {
	handles    *HandleTable
	commands   *CommandRing
	properties *PropertyRing
	deletions  *DeletionQueue
	events     *EventQueue
	lastError  lastErrorStore

	shuttingDown atomic.Bool

	channels int
	listener ListenerPose

	panner *panner.Bank
	router *router.Router

	sources []liveRef
	effects []liveRef

	direct        [BlockSize * MaxChannels]float32
	masterScratch [BlockSize * MaxChannels]float32

	blockTime uint64
}

// NewContext creates an engine bound to no device yet, producing
// interleaved blocks of the given channel count (clamped to
// [1, MaxChannels]).
func NewContext(channels int) *Context {
	if channels < 1 {
		channels = 1
	}
	if channels > MaxChannels {
		channels = MaxChannels
	}
	cmds := NewCommandRing()
	ctx := &Context{
		handles:   NewHandleTable(),
		commands:  cmds,
		deletions: NewDeletionQueue(),
		events:    NewEventQueue(),
		channels:  channels,
		listener:  defaultListenerPose(),
		panner:    panner.NewBank(SampleRate),
		router:    router.New(),
	}
	ctx.properties = NewPropertyRing(PropertyRingCapacity, cmds, ctx.applyProperty)
	return ctx
}

// SetHeadless switches the command ring's Call to run inline, for
// headless (device-less) operation.
func (c *Context) SetHeadless(v bool) { c.commands.SetHeadless(v) }

// ShuttingDown reports whether Shutdown has been called on this context.
// User-thread entry points (capi) check this before doing any further
// work against a context, so callers consistently see
// CodeShutdownInProgress instead of racing the final deletion drain
// (spec §7, §8 scenario 6).
func (c *Context) ShuttingDown() bool { return c.shuttingDown.Load() }

// Channels reports the context's negotiated output channel count.
func (c *Context) Channels() int { return c.channels }

// BlockTime returns the most recently completed block's iteration
// counter (0 before the first RunBlock).
func (c *Context) BlockTime() uint64 { return c.blockTime }

// Handles returns the context's handle table.
func (c *Context) Handles() *HandleTable { return c.handles }

// Commands returns the context's command ring.
func (c *Context) Commands() *CommandRing { return c.commands }

// Properties returns the context's property ring.
func (c *Context) Properties() *PropertyRing { return c.properties }

// Deletions returns the context's deletion queue.
func (c *Context) Deletions() *DeletionQueue { return c.deletions }

// Events returns the context's event queue.
func (c *Context) Events() *EventQueue { return c.events }

// PannerBank returns the context's panner bank.
func (c *Context) PannerBank() *panner.Bank { return c.panner }

// Router returns the context's send-matrix router.
func (c *Context) Router() *router.Router { return c.router }

// Listener returns the current listener pose. Safe to call only from the
// audio thread (i.e. from within a source's Tick); other callers must go
// through Commands().Call.
func (c *Context) Listener() ListenerPose { return c.listener }

// SetListenerPosition updates the listener's position on the audio
// thread via the command ring.
func (c *Context) SetListenerPosition(pos [3]float64) {
	c.commands.Enqueue(func() { c.listener.Position = pos })
}

// SetListenerOrientation updates the listener's forward/up vectors on the
// audio thread via the command ring.
func (c *Context) SetListenerOrientation(forward, up [3]float64) {
	c.commands.Enqueue(func() {
		c.listener.Forward = forward
		c.listener.Up = up
	})
}

// Direct returns the engine's direct accumulation buffer, sized
// BlockSize*Channels frames, valid only during RunBlock.
func (c *Context) Direct() []float32 { return c.direct[:BlockSize*c.channels] }

// Master returns the engine's master bus, the buffer the panner bank and
// every live global effect sum their output into, sized
// BlockSize*Channels frames, valid only during RunBlock.
func (c *Context) Master() []float32 { return c.masterScratch[:BlockSize*c.channels] }

// RegisterSource adds s to the engine's live source set via the command
// ring, so it starts receiving Tick calls from the next block onward. The
// engine holds only a weak reference; s's handle-table entry is what
// keeps it alive.
func RegisterSource[T any, PT TickablePtr[T]](c *Context, s Shared[T]) {
	ref := newLiveRef[T, PT](s.Downgrade())
	c.commands.Enqueue(func() { c.sources = append(c.sources, ref) })
}

// RegisterEffect adds s to the engine's live global-effect set via the
// command ring.
func RegisterEffect[T any, PT TickablePtr[T]](c *Context, s Shared[T]) {
	ref := newLiveRef[T, PT](s.Downgrade())
	c.commands.Enqueue(func() { c.effects = append(c.effects, ref) })
}

func (c *Context) applyProperty(target Handle, id int, v Value) {
	pt, ok := c.handles.target(target)
	if !ok {
		return
	}
	// Audio-thread property failures are swallowed, never propagated
	// (spec §7): a rejected write simply leaves the prior value in place.
	_ = pt.SetProperty(id, v)
}

// RunBlock drives exactly one block: the eight steps of spec §4.10. out
// must hold at least BlockSize*Channels float32s; RunBlock writes the
// finished interleaved block into it.
func (c *Context) RunBlock(out []float32) {
	c.blockTime++
	c.deletions.SetIteration(c.blockTime)

	c.properties.Drain()
	c.commands.Drain(commandBudgetPerBlock)

	n := BlockSize * c.channels
	direct := c.direct[:n]
	master := c.masterScratch[:n]
	for i := range direct {
		direct[i] = 0
	}
	for i := range master {
		master[i] = 0
	}

	c.router.SetBlockTime(c.blockTime)

	live := c.sources[:0]
	for _, s := range c.sources {
		if !s.alive() {
			continue
		}
		s.tick(c.blockTime)
		live = append(live, s)
	}
	c.sources = live

	liveEffects := c.effects[:0]
	for _, e := range c.effects {
		if !e.alive() {
			continue
		}
		e.tick(c.blockTime)
		liveEffects = append(liveEffects, e)
	}
	c.effects = liveEffects

	c.router.Prune()

	c.panner.Mix(master, c.channels)

	limit := n
	if len(out) < limit {
		limit = len(out)
	}
	for i := 0; i < limit; i++ {
		out[i] = direct[i] + master[i]
	}

	c.deletions.Drain(c.blockTime, deletionBudgetPerBlock)
}

// Shutdown switches the engine to synchronous deletion and waits for any
// in-flight enqueue to land, then runs one final drain so every
// outstanding destructor executes before returning (spec §8 scenario 6).
// Subsequent property/command writes still enqueue successfully, but the
// caller is expected to have already stopped driving RunBlock.
func (c *Context) Shutdown() {
	c.shuttingDown.Store(true)
	c.deletions.WaitIdle()
	c.deletions.SetDeleteDirectly(true)
	c.deletions.Drain(c.blockTime+1, 1<<20)
}
