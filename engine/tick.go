// SPDX-License-Identifier: EPL-2.0

package engine

// TickablePtr constrains PT to be a pointer to T that implements Tick,
// the one capability the block loop needs from a live source or global
// effect (spec §9: "a shared capability interface"). Expressing the
// constraint this way — rather than requiring T itself to implement an
// interface — lets source/generator/effect define Tick with a pointer
// receiver, the normal Go idiom for a type with mutable per-instance
// state, while still letting engine hold and drive it without importing
// their packages.
type TickablePtr[T any] interface {
	*T
	Tick(blockTime uint64)
}

// liveRef adapts a Weak[T] into the untyped liveness-check-and-tick pair
// Context's block loop needs, so the loop's source and effect lists can
// hold a mix of concrete types without engine importing any of them.
type liveRef struct {
	alive func() bool
	tick  func(blockTime uint64)
}

func newLiveRef[T any, PT TickablePtr[T]](w Weak[T]) liveRef {
	return liveRef{
		alive: w.Alive,
		tick: func(blockTime uint64) {
			s, ok := w.Upgrade()
			if !ok {
				return
			}
			PT(s.Get()).Tick(blockTime)
			s.Release()
		},
	}
}
