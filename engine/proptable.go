// SPDX-License-Identifier: EPL-2.0

package engine

// PropertySpec describes one property of an object type: its id, dynamic
// kind, numeric range (for KindDouble), expected target handle kind (for
// KindHandle), and accessor pair. A *PropertyTable built from a slice of
// these is the data-driven dispatcher spec §9 calls for, replacing the
// original's per-class X-macro code generation with one generic
// interpreter shared by every object type.
type PropertySpec struct {
	ID         int
	Kind       Kind
	Min, Max   float64
	TargetKind HandleKind
	Get        func(obj any) Value
	Set        func(obj any, v Value) error
}

// PropertyTable is a per-object-type dispatcher built once (typically at
// package init or first construction) and shared by every instance of
// that type; obj is passed into each spec's Get/Set at call time so the
// table itself holds no per-instance state.
type PropertyTable struct {
	specs map[int]PropertySpec
}

// NewPropertyTable builds a dispatcher from specs.
func NewPropertyTable(specs []PropertySpec) *PropertyTable {
	t := &PropertyTable{specs: make(map[int]PropertySpec, len(specs))}
	for _, s := range specs {
		t.specs[s.ID] = s
	}
	return t
}

// Has reports whether id is a known property.
func (t *PropertyTable) Has(id int) bool {
	_, ok := t.specs[id]
	return ok
}

// Get reads a property's current value from obj.
func (t *PropertyTable) Get(obj any, id int) (Value, error) {
	spec, ok := t.specs[id]
	if !ok {
		return Value{}, errUnknownProperty
	}
	return spec.Get(obj), nil
}

// Validate checks a candidate value against a property's declared kind
// and range without applying it.
func (t *PropertyTable) Validate(id int, v Value) error {
	spec, ok := t.specs[id]
	if !ok {
		return errUnknownProperty
	}
	if spec.Kind != v.Kind {
		return errPropertyKindMismatch
	}
	if spec.Kind == KindDouble && (v.D < spec.Min || v.D > spec.Max) {
		return errPropertyOutOfRange
	}
	return nil
}

// Set validates then applies v to obj via the property's accessor.
func (t *PropertyTable) Set(obj any, id int, v Value) error {
	if err := t.Validate(id, v); err != nil {
		return err
	}
	return t.specs[id].Set(obj, v)
}
