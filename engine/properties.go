// SPDX-License-Identifier: EPL-2.0

package engine

// Kind tags the dynamic type of a Value (spec §3, §4.3).
type Kind uint8

const (
	KindInt Kind = iota
	KindDouble
	KindHandle
	KindDouble3
	KindDouble6
)

// Value is a tagged union over the property value types the ring and
// property table exchange: int, double, a shared handle, a double-triple
// (position-like), or a double-sextuple (orientation: forward and up).
type Value struct {
	Kind Kind
	I    int64
	D    float64
	H    Handle
	V3   [3]float64
	V6   [6]float64
}

func IntValue(v int64) Value          { return Value{Kind: KindInt, I: v} }
func DoubleValue(v float64) Value     { return Value{Kind: KindDouble, D: v} }
func HandleValue(v Handle) Value      { return Value{Kind: KindHandle, H: v} }
func Double3Value(v [3]float64) Value { return Value{Kind: KindDouble3, V3: v} }
func Double6Value(v [6]float64) Value { return Value{Kind: KindDouble6, V6: v} }

// PropertyTarget is what any handle-addressable object exposes to the
// property ring/table pipeline. Concrete types in source/, generator/,
// and effect/ implement it by building one *PropertyTable (data-driven,
// per spec §9's rejection of the original's X-macro DSL) and delegating.
type PropertyTarget interface {
	SetProperty(id int, v Value) error
	GetProperty(id int) (Value, error)
}

// propertyWrite is one record in the property ring.
type propertyWrite struct {
	Target     Handle
	PropertyID int
	Value      Value
}

// PropertyRing is the fixed-capacity ring of property writes drained once
// per block, before the command ring (spec §4.3, §5 ordering guarantee).
type PropertyRing struct {
	ch       chan propertyWrite
	overflow *CommandRing
	apply    func(target Handle, id int, v Value)
}

// NewPropertyRing creates a ring of the given capacity. overflow is the
// command ring a write falls back to when the property ring is full;
// apply resolves a target handle and dispatches into its PropertyTarget.
func NewPropertyRing(capacity int, overflow *CommandRing, apply func(Handle, int, Value)) *PropertyRing {
	return &PropertyRing{ch: make(chan propertyWrite, capacity), overflow: overflow, apply: apply}
}

// Write submits a property write. On overflow it falls back to an
// invokable on the command ring rather than dropping the write (spec §8
// boundary test).
func (r *PropertyRing) Write(target Handle, id int, v Value) {
	select {
	case r.ch <- propertyWrite{Target: target, PropertyID: id, Value: v}:
	default:
		r.overflow.Enqueue(func() { r.apply(target, id, v) })
	}
}

// Drain applies every pending write. Must only be called from the audio
// thread, at the start of each block, before the command ring is drained.
func (r *PropertyRing) Drain() {
	for {
		select {
		case w := <-r.ch:
			r.apply(w.Target, w.PropertyID, w.Value)
		default:
			return
		}
	}
}
