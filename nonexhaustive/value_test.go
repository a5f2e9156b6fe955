package nonexhaustive

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// event is a tagged-union style enum: kind selects the active variant.
type event struct {
	kind  layout.Discriminant
	code  uint32
	label string
}

func (e event) Discriminant() layout.Discriminant { return e.kind }

const (
	evOpen  layout.Discriminant = 0
	evClose layout.Discriminant = 1
)

var eventBudget = Words(6)

func bindEvent(t *testing.T) *VTable {
	t.Helper()
	return MustBind[event](eventBudget, VTable{
		Clone: func(v any) any { return v },
		Compare: func(a, b any) int {
			ea, eb := a.(event), b.(event)
			if ea.code != eb.code {
				if ea.code < eb.code {
					return -1
				}
				return 1
			}
			return strings.Compare(ea.label, eb.label)
		},
		Serialize: func(v any) ([]byte, error) {
			e := v.(event)
			return fmt.Appendf(nil, "%d|%s", e.code, e.label), nil
		},
		Deserialize: func(d layout.Discriminant, payload []byte) (any, error) {
			if d != evOpen && d != evClose {
				return nil, errors.UnknownVariant("event", int64(d))
			}
			codeStr, label, _ := strings.Cut(string(payload), "|")
			code, err := strconv.ParseUint(codeStr, 10, 32)
			if err != nil {
				return nil, err
			}
			return event{kind: d, code: uint32(code), label: label}, nil
		},
	})
}

func TestBudgetAssertedAtConstruction(t *testing.T) {
	bindEvent(t)

	// The budget is checked before the vtable lookup and before any
	// cross-library concern: an enum that outgrew its storage never
	// produces a value at all.
	_, err := New(event{kind: evOpen}, Words(1))
	if err == nil {
		t.Fatal("New accepted a value over budget")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindBudgetExceeded {
		t.Fatalf("got %v, want budget_exceeded", err)
	}
}

type unboundEvent struct{ d layout.Discriminant }

func (u unboundEvent) Discriminant() layout.Discriminant { return u.d }

func TestNewRequiresBoundVTable(t *testing.T) {
	_, err := New(unboundEvent{}, Words(2))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindRegistration {
		t.Fatalf("got %v, want registration error", err)
	}
}

func TestBindIsIdempotent(t *testing.T) {
	first := bindEvent(t)
	second, err := Bind[event](eventBudget, VTable{})
	if err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if first != second {
		t.Fatal("second Bind did not return the canonical vtable")
	}
}

func TestBindRefusesUndersizedBudget(t *testing.T) {
	// An undersized binding would let FromForeign deserialize into an
	// enum that New rejects, so it must fail at registration.
	_, err := Bind[event](Words(1), VTable{})
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindBudgetExceeded {
		t.Fatalf("got %v, want budget error", err)
	}
	if _, ok := boundVTable[event](Words(1)); ok {
		t.Fatal("undersized binding was registered anyway")
	}
}

func TestRecognizedRoundTrip(t *testing.T) {
	bindEvent(t)

	v, err := New(event{kind: evClose, code: 7, label: "shutdown"}, eventBudget)
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsRecognized() || v.Discriminant() != evClose {
		t.Fatalf("IsRecognized=%v discr=%d", v.IsRecognized(), v.Discriminant())
	}

	got, err := v.AsEnum()
	if err != nil {
		t.Fatal(err)
	}
	if got.code != 7 || got.label != "shutdown" {
		t.Fatalf("AsEnum = %+v", got)
	}

	payload, err := v.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromForeign[event](evClose, payload, eventBudget)
	if err != nil {
		t.Fatal(err)
	}
	if !back.IsRecognized() {
		t.Fatal("known discriminant came back foreign")
	}
	if got, _ := back.AsEnum(); got != (event{kind: evClose, code: 7, label: "shutdown"}) {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestForeignVariant(t *testing.T) {
	bindEvent(t)

	const futureDiscr layout.Discriminant = 9
	payload := []byte("42|suspend")

	v, err := FromForeign[event](futureDiscr, payload, eventBudget)
	if err != nil {
		t.Fatal(err)
	}
	if v.IsRecognized() {
		t.Fatal("unknown discriminant reported as recognized")
	}

	t.Run("downcast fails gracefully", func(t *testing.T) {
		_, err := v.AsEnum()
		var e *errors.Error
		if !stderrors.As(err, &e) || e.Kind != errors.KindUnknownVariant {
			t.Fatalf("got %v, want unknown_variant", err)
		}
	})

	t.Run("clone preserves the payload", func(t *testing.T) {
		c := v.Clone()
		if c.Discriminant() != futureDiscr || c.IsRecognized() {
			t.Fatalf("clone discr=%d recognized=%v", c.Discriminant(), c.IsRecognized())
		}
		out, err := c.Serialize()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != string(payload) {
			t.Fatalf("clone payload = %q", out)
		}
	})

	t.Run("serialize round-trips unchanged", func(t *testing.T) {
		out, err := v.Serialize()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != string(payload) {
			t.Fatalf("payload = %q, want %q", out, payload)
		}
	})

	t.Run("drop is safe", func(t *testing.T) {
		v.Clone().Drop()
	})
}

func TestCompare(t *testing.T) {
	bindEvent(t)

	mk := func(kind layout.Discriminant, code uint32) *Value[event] {
		t.Helper()
		v, err := New(event{kind: kind, code: code}, eventBudget)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}

	t.Run("discriminant orders first", func(t *testing.T) {
		got, err := mk(evOpen, 100).Compare(mk(evClose, 1))
		if err != nil || got >= 0 {
			t.Fatalf("Compare = (%d, %v), want negative", got, err)
		}
	})

	t.Run("bound comparison within a variant", func(t *testing.T) {
		got, err := mk(evOpen, 1).Compare(mk(evOpen, 2))
		if err != nil || got >= 0 {
			t.Fatalf("Compare = (%d, %v), want negative", got, err)
		}
		got, err = mk(evOpen, 2).Compare(mk(evOpen, 2))
		if err != nil || got != 0 {
			t.Fatalf("Compare = (%d, %v), want 0", got, err)
		}
	})

	t.Run("foreign values compare by payload", func(t *testing.T) {
		a, _ := FromForeign[event](9, []byte("a"), eventBudget)
		b, _ := FromForeign[event](9, []byte("b"), eventBudget)
		got, err := a.Compare(b)
		if err != nil || got >= 0 {
			t.Fatalf("Compare = (%d, %v), want negative", got, err)
		}
	})
}
