package nonexhaustive

import (
	"reflect"
	"sync"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// Enum is implemented by concrete enum types carried in a Value.
type Enum interface {
	Discriminant() layout.Discriminant
}

// VTable holds the operations a library exports for its enum so that
// callers built against an older variant set can still operate on values
// holding variants they do not recognize. Clone, Drop and Compare receive
// the concrete enum value; Deserialize rebuilds one from a serialized
// payload and may reject discriminants the binding library itself does not
// know.
type VTable struct {
	Clone       func(v any) any
	Drop        func(v any)
	Compare     func(a, b any) int
	Serialize   func(v any) ([]byte, error)
	Deserialize func(discr layout.Discriminant, payload []byte) (any, error)
}

type bindingKey struct {
	typ    reflect.Type
	budget Storage
}

// bindings is the process-wide (enum type, budget) -> *VTable registry.
var bindings sync.Map

// Bind registers the vtable for an enum type under a storage budget and
// returns the canonical bound vtable. The enum type itself must fit the
// budget: a binding that could never hold its own enum would let
// FromForeign re-type payloads into values New refuses to construct. The
// first bind for a pair wins; later binds for the same pair return the
// original, so every Value of the pair shares one vtable for the life of
// the process.
func Bind[E Enum](budget Storage, vt VTable) (*VTable, error) {
	rt := reflect.TypeFor[E]()
	if !budget.Fits(rt.Size(), uintptr(rt.Align())) {
		return nil, errors.BudgetExceeded(rt.String(), rt.Size(), budget.Size)
	}
	key := bindingKey{typ: rt, budget: budget}
	canonical, _ := bindings.LoadOrStore(key, &vt)
	return canonical.(*VTable), nil
}

// MustBind is Bind for bindings known to fit, typically at package level.
func MustBind[E Enum](budget Storage, vt VTable) *VTable {
	bound, err := Bind[E](budget, vt)
	if err != nil {
		panic(err)
	}
	return bound
}

func boundVTable[E Enum](budget Storage) (*VTable, bool) {
	key := bindingKey{typ: reflect.TypeFor[E](), budget: budget}
	v, ok := bindings.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*VTable), true
}
