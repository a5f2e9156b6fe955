package prefix

import (
	"fmt"

	"github.com/wirelayer/abiguard/errors"
)

// View pairs a concrete prefix-type value with the accessibility mask of
// the build that produced it. T is the caller's own struct for the fields
// it knows about; newer builds may have populated fields past the end of T
// that this caller reads only through the mask-checking accessors.
type View[T any] struct {
	typ   *Type
	acc   FieldAccessibility
	value *T
}

// Wrap binds a value to its build's accessibility mask. The mask must cover
// the frozen prefix; a build that failed to populate a guaranteed field is
// rejected here, before any field is read.
func Wrap[T any](t *Type, acc FieldAccessibility, value *T) (*View[T], error) {
	if value == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "prefix: nil value")
	}
	if required := t.prefixMask(); !acc.Covers(required) {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			TypeName(t.name).
			Detail("prefix: accessibility %#x does not cover the %d guaranteed fields", uint64(acc), t.suffixFrom).
			Build()
	}
	return &View[T]{typ: t, acc: acc, value: value}, nil
}

// Type returns the view's type definition.
func (v *View[T]) Type() *Type { return v.typ }

// Accessibility returns the producing build's field mask.
func (v *View[T]) Accessibility() FieldAccessibility { return v.acc }

// Value returns the underlying value. Guaranteed prefix fields may be read
// from it directly; suffix fields go through TryField or MustField.
func (v *View[T]) Value() *T { return v.value }

// HasField reports whether the producing build populated field i.
func (v *View[T]) HasField(i int) bool { return v.acc.Has(i) }

// TryField reads field i through read, reporting ok=false when the
// producing build did not populate it.
func TryField[T, F any](v *View[T], i int, read func(*T) F) (F, bool) {
	if !v.acc.Has(i) {
		var zero F
		return zero, false
	}
	return read(v.value), true
}

// MustField reads field i through read, applying the field's declared
// missing-field policy when the producing build did not populate it:
// PolicyDefault returns fallback, PolicyAbort panics.
func MustField[T, F any](v *View[T], i int, read func(*T) F, fallback F) F {
	if v.acc.Has(i) {
		return read(v.value)
	}
	if v.typ.PolicyFor(i) == PolicyDefault {
		return fallback
	}
	panic(fmt.Sprintf("prefix: field %d of %s is not populated by this build", i, v.typ.name))
}
