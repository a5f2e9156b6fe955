package nonexhaustive

import (
	"bytes"
	"reflect"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// Value carries one value of a nonexhaustive enum inside its declared
// storage budget. A Value is either recognized, holding the concrete enum,
// or foreign, holding the serialized payload of a variant this build does
// not know. Every operation except AsEnum works on both forms.
type Value[E Enum] struct {
	vt      *VTable
	budget  Storage
	typed   E
	isTyped bool
	payload []byte
	discr   layout.Discriminant
}

// New wraps a concrete enum value. It asserts the budget before anything
// else: a build whose enum outgrew its declared storage must fail here, at
// construction, not after the value has crossed a boundary.
func New[E Enum](v E, budget Storage) (*Value[E], error) {
	rt := reflect.TypeFor[E]()
	if !budget.Fits(rt.Size(), uintptr(rt.Align())) {
		return nil, errors.BudgetExceeded(rt.String(), rt.Size(), budget.Size)
	}
	vt, ok := boundVTable[E](budget)
	if !ok {
		return nil, errors.Registration("enum vtable", rt.String(), nil)
	}
	return &Value[E]{
		vt:      vt,
		budget:  budget,
		typed:   v,
		isTyped: true,
		discr:   v.Discriminant(),
	}, nil
}

// FromForeign wraps a serialized variant received from another build of
// the library. When the bound vtable recognizes the discriminant the value
// becomes a regular recognized Value; otherwise it stays foreign and only
// AsEnum will refuse it.
func FromForeign[E Enum](discr layout.Discriminant, payload []byte, budget Storage) (*Value[E], error) {
	rt := reflect.TypeFor[E]()
	if uintptr(len(payload)) > budget.Size {
		return nil, errors.BudgetExceeded(rt.String(), uintptr(len(payload)), budget.Size)
	}
	vt, ok := boundVTable[E](budget)
	if !ok {
		return nil, errors.Registration("enum vtable", rt.String(), nil)
	}

	if vt.Deserialize != nil {
		if decoded, err := vt.Deserialize(discr, payload); err == nil {
			if typed, ok := decoded.(E); ok {
				return &Value[E]{vt: vt, budget: budget, typed: typed, isTyped: true, discr: discr}, nil
			}
		}
	}
	return &Value[E]{
		vt:      vt,
		budget:  budget,
		payload: bytes.Clone(payload),
		discr:   discr,
	}, nil
}

// Discriminant returns the carried variant's discriminant, recognized or
// not.
func (v *Value[E]) Discriminant() layout.Discriminant { return v.discr }

// IsRecognized reports whether this build knows the carried variant.
func (v *Value[E]) IsRecognized() bool { return v.isTyped }

// Budget returns the value's storage budget.
func (v *Value[E]) Budget() Storage { return v.budget }

// AsEnum downcasts to the concrete enum. It fails with an unknown-variant
// error when the carried variant postdates this build.
func (v *Value[E]) AsEnum() (E, error) {
	if v.isTyped {
		return v.typed, nil
	}
	var zero E
	return zero, errors.UnknownVariant(reflect.TypeFor[E]().String(), int64(v.discr))
}

// Clone copies the value. Foreign variants are cloned by payload, so a
// caller that never recognizes the variant can still duplicate and pass it
// on intact.
func (v *Value[E]) Clone() *Value[E] {
	c := *v
	if v.isTyped {
		if v.vt.Clone != nil {
			c.typed = v.vt.Clone(v.typed).(E)
		}
	} else {
		c.payload = bytes.Clone(v.payload)
	}
	return &c
}

// Drop releases any resources the carried variant holds. Foreign variants
// hold only their payload bytes and need no release beyond dropping the
// reference.
func (v *Value[E]) Drop() {
	if v.isTyped && v.vt.Drop != nil {
		v.vt.Drop(v.typed)
	}
	v.payload = nil
}

// Compare orders two values: by discriminant first, then within a variant
// by the bound comparison for recognized values or by payload bytes for
// foreign ones.
func (v *Value[E]) Compare(o *Value[E]) (int, error) {
	if v.discr != o.discr {
		if v.discr < o.discr {
			return -1, nil
		}
		return 1, nil
	}
	switch {
	case v.isTyped && o.isTyped:
		if v.vt.Compare == nil {
			return 0, errors.InvalidInput(errors.PhaseConstruct,
				"nonexhaustive: no comparison bound for "+reflect.TypeFor[E]().String())
		}
		return v.vt.Compare(v.typed, o.typed), nil
	case !v.isTyped && !o.isTyped:
		return bytes.Compare(v.payload, o.payload), nil
	default:
		// Same discriminant but one side recognizes it and the other does
		// not: the values came from inconsistent bindings.
		return 0, errors.InvalidData(errors.PhaseConstruct, nil,
			"nonexhaustive: recognized and foreign values share a discriminant")
	}
}

// Serialize encodes the carried variant. Foreign values round-trip their
// original payload unchanged.
func (v *Value[E]) Serialize() ([]byte, error) {
	if !v.isTyped {
		return bytes.Clone(v.payload), nil
	}
	if v.vt.Serialize == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct,
			"nonexhaustive: no serializer bound for "+reflect.TypeFor[E]().String())
	}
	return v.vt.Serialize(v.typed)
}
