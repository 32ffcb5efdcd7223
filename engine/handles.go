// SPDX-License-Identifier: EPL-2.0

package engine

import "sync"

// HandleKind tags what kind of object a Handle names, so capi can reject
// a handle used at the wrong call site with CodeHandleTypeMismatch
// instead of a type assertion panic.
type HandleKind uint8

const (
	KindContext HandleKind = iota
	KindSource
	KindGenerator
	KindBuffer
	KindEffect
)

type handleEntry struct {
	kind    HandleKind
	obj     any // the concrete Shared[T], for typed retrieval by capi
	release func()
	target  PropertyTarget // nil if T carries no properties (e.g. Buffer)
}

// HandleTable maps opaque integer handles to the strong Shared[T] record
// each owns. Handles are allocated monotonically and never reused within
// an engine's lifetime (spec §3). The mutex guards allocation and lookup
// only; it is never held across audio-thread work.
type HandleTable struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]handleEntry
}

// Handle is an opaque, monotonically allocated object identifier.
type Handle uint64

// NewHandleTable creates an empty handle table. Handle 0 is never issued,
// so zero-valued Handle fields reliably mean "no handle."
func NewHandleTable() *HandleTable {
	return &HandleTable{next: 1, entries: make(map[Handle]handleEntry)}
}

// Register allocates a handle that owns s as its strong reference. If *T
// implements PropertyTarget, the handle participates in the property
// pipeline (§4.3); otherwise (e.g. a decoded Buffer) it is a plain
// resource handle.
func Register[T any](t *HandleTable, kind HandleKind, s Shared[T]) Handle {
	var target PropertyTarget
	if pt, ok := any(s.Get()).(PropertyTarget); ok {
		target = pt
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = handleEntry{kind: kind, obj: s, release: s.Release, target: target}
	return h
}

// Lookup returns the handle's stored Shared[T] as an untyped value plus
// its kind. Callers that know T type-assert obj back to Shared[T].
func (t *HandleTable) Lookup(h Handle) (obj any, kind HandleKind, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, found := t.entries[h]
	if !found {
		return nil, 0, false
	}
	return e.obj, e.kind, true
}

// target resolves a handle to its PropertyTarget, used by the property
// ring's apply callback.
func (t *HandleTable) target(h Handle) (PropertyTarget, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, found := t.entries[h]
	if !found || e.target == nil {
		return nil, false
	}
	return e.target, true
}

// Free drops the handle's strong reference and removes it from the
// table. The underlying object is not destroyed synchronously:
// Shared[T].Release enqueues a deletion record per spec §3/§4.1.
func (t *HandleTable) Free(h Handle) {
	t.mu.Lock()
	e, found := t.entries[h]
	if found {
		delete(t.entries, h)
	}
	t.mu.Unlock()
	if found {
		e.release()
	}
}
