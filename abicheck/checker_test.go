package abicheck

import (
	"errors"
	"strings"
	"testing"

	"github.com/wirelayer/abiguard/layout"
)

func newLayout(p layout.Params) *layout.TypeLayout {
	if p.Alignment == 0 {
		p.Alignment = 8
	}
	return layout.New(p)
}

func field(name string, typ layout.Ref) layout.FieldDef {
	return layout.FieldDef{Name: name, Type: typ}
}

func mustFail(t *testing.T, expected, found *layout.TypeLayout) *IncompatibilityError {
	t.Helper()
	err := Check(expected, found)
	if err == nil {
		t.Fatalf("Check(%s, %s) = nil, want incompatibility", expected.FullName(), found.FullName())
	}
	var ie *IncompatibilityError
	if !errors.As(err, &ie) {
		t.Fatalf("Check returned %T, want *IncompatibilityError", err)
	}
	return ie
}

// moduleV1 is the baseline for the growth tests: a prefix struct whose
// three fields are all guaranteed.
func moduleV1() *layout.TypeLayout {
	return newLayout(layout.Params{
		Name: "Module",
		Size: 32,
		Data: layout.PrefixOf(3, layout.FieldDefs{
			field("a", layout.U32Layout.Ref()),
			field("b", layout.StringLayout.Ref()),
			field("c", layout.UsizeLayout.Ref()),
		}),
	})
}

// moduleV2 grew a conditional suffix field past the guaranteed prefix.
func moduleV2() *layout.TypeLayout {
	return newLayout(layout.Params{
		Name: "Module",
		Size: 40,
		Data: layout.PrefixOf(3, layout.FieldDefs{
			field("a", layout.U32Layout.Ref()),
			field("b", layout.StringLayout.Ref()),
			field("c", layout.UsizeLayout.Ref()),
			field("d", layout.BoolLayout.Ref()),
		}),
	})
}

func TestCheckReflexive(t *testing.T) {
	for _, tc := range []struct {
		name string
		cell *layout.TypeLayout
	}{
		{"prefix struct", moduleV1()},
		{"primitive", layout.U32Layout.Get()},
		{"container leaf", layout.StringLayout.Get()},
		{"nonexhaustive enum", newLayout(layout.Params{
			Name: "Event", Size: 8,
			Data: layout.NonexhaustiveEnumOf(layout.DiscrU8,
				layout.VariantDef{Name: "Open", Discriminant: 0},
				layout.VariantDef{Name: "Close", Discriminant: 1},
			),
		})},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := Check(tc.cell, tc.cell); err != nil {
				t.Fatalf("Check(x, x) = %v, want nil", err)
			}
		})
	}
}

func TestPrefixSuffixGrowth(t *testing.T) {
	v1, v2 := moduleV1(), moduleV2()

	if err := Check(v1, v2); err != nil {
		t.Fatalf("old interface against grown implementation: %v", err)
	}

	ie := mustFail(t, v2, v1)
	if !ie.Has(KindFieldCount) {
		t.Errorf("missing field_count, got %v", ie.Flatten())
	}
	if !strings.Contains(ie.Error(), "d: bool") {
		t.Errorf("diagnostic does not name the missing field:\n%s", ie.Error())
	}
}

func TestFrozenStructRejectsGrowth(t *testing.T) {
	frozen := func(size uintptr, defs layout.FieldDefs) *layout.TypeLayout {
		return newLayout(layout.Params{Name: "Config", Size: size, Data: layout.StructOf(defs)})
	}
	small := frozen(8, layout.FieldDefs{field("a", layout.U64Layout.Ref())})
	big := frozen(16, layout.FieldDefs{
		field("a", layout.U64Layout.Ref()),
		field("b", layout.U64Layout.Ref()),
	})

	ie := mustFail(t, small, big)
	if !ie.Has(KindSize) {
		t.Errorf("frozen struct growth should be a size error, got %v", ie.Flatten())
	}
	if !ie.Has(KindFieldCount) {
		t.Errorf("frozen struct growth should be a field count error, got %v", ie.Flatten())
	}
}

func TestFieldOrderMatters(t *testing.T) {
	build := func(first, second string) *layout.TypeLayout {
		return newLayout(layout.Params{
			Name: "Pair", Size: 8,
			Data: layout.StructOf(layout.FieldDefs{
				field(first, layout.U32Layout.Ref()),
				field(second, layout.U32Layout.Ref()),
			}),
		})
	}

	ie := mustFail(t, build("a", "b"), build("b", "a"))
	var mismatches int
	for _, ins := range ie.Flatten() {
		if ins.Kind == KindUnexpectedField {
			mismatches++
		}
	}
	if mismatches != 2 {
		t.Fatalf("got %d field mismatches, want 2: %v", mismatches, ie.Flatten())
	}
}

func TestSizeAndAlignment(t *testing.T) {
	a := newLayout(layout.Params{Name: "Blob", Size: 16, Alignment: 8, Data: layout.Opaque()})
	b := newLayout(layout.Params{Name: "Blob", Size: 24, Alignment: 4, Data: layout.Opaque()})

	ie := mustFail(t, a, b)
	if !ie.Has(KindSize) || !ie.Has(KindAlignment) {
		t.Fatalf("want size and alignment errors, got %v", ie.Flatten())
	}
}

func TestReprMismatch(t *testing.T) {
	a := newLayout(layout.Params{Name: "Wrapper", Size: 8, Repr: layout.ReprC(), Data: layout.Opaque()})
	b := newLayout(layout.Params{Name: "Wrapper", Size: 8, Repr: layout.ReprTransparent(), Data: layout.Opaque()})

	if ie := mustFail(t, a, b); !ie.Has(KindRepr) {
		t.Fatalf("want repr error, got %v", ie.Flatten())
	}
}

func TestDataKindMismatch(t *testing.T) {
	a := newLayout(layout.Params{Name: "Shape", Size: 8, Data: layout.StructOf(nil)})
	b := newLayout(layout.Params{Name: "Shape", Size: 8, Data: layout.EnumOf(layout.DiscrU8)})

	if ie := mustFail(t, a, b); !ie.Has(KindDataKind) {
		t.Fatalf("want data kind error, got %v", ie.Flatten())
	}
}

func TestNameMismatchStopsNode(t *testing.T) {
	a := newLayout(layout.Params{Name: "Left", Size: 8, Data: layout.Opaque()})
	b := newLayout(layout.Params{Name: "Right", Size: 24, Alignment: 4, Data: layout.Opaque()})

	ie := mustFail(t, a, b)
	flat := ie.Flatten()
	if len(flat) != 1 || flat[0].Kind != KindName {
		t.Fatalf("name mismatch should suppress further checks on the node, got %v", flat)
	}
}

func TestEnums(t *testing.T) {
	enum := func(exhaustive bool, variants ...layout.VariantDef) *layout.TypeLayout {
		def := layout.NonexhaustiveEnumOf
		if exhaustive {
			def = layout.EnumOf
		}
		return newLayout(layout.Params{Name: "Event", Size: 8, Data: def(layout.DiscrU8, variants...)})
	}
	open := layout.VariantDef{Name: "Open", Discriminant: 0}
	close_ := layout.VariantDef{Name: "Close", Discriminant: 1}
	reset := layout.VariantDef{Name: "Reset", Discriminant: 2}

	t.Run("nonexhaustive growth tolerated", func(t *testing.T) {
		if err := Check(enum(false, open, close_), enum(false, open, close_, reset)); err != nil {
			t.Fatalf("found side grew a variant: %v", err)
		}
	})

	t.Run("expected side growth fatal", func(t *testing.T) {
		ie := mustFail(t, enum(false, open, close_, reset), enum(false, open, close_))
		if !ie.Has(KindTooManyVariants) || !ie.Has(KindUnexpectedVariant) {
			t.Fatalf("want too_many_variants naming Reset, got %v", ie.Flatten())
		}
		if !strings.Contains(ie.Error(), "Reset") {
			t.Errorf("diagnostic does not name the missing variant:\n%s", ie.Error())
		}
	})

	t.Run("exhaustive growth fatal both ways", func(t *testing.T) {
		small, big := enum(true, open, close_), enum(true, open, close_, reset)
		if err := Check(small, big); err == nil {
			t.Error("exhaustive enum accepted extra found variant")
		}
		if err := Check(big, small); err == nil {
			t.Error("exhaustive enum accepted missing found variant")
		}
	})

	t.Run("exhaustiveness mismatch", func(t *testing.T) {
		ie := mustFail(t, enum(true, open), enum(false, open))
		if !ie.Has(KindExtensibility) {
			t.Fatalf("want extensibility error, got %v", ie.Flatten())
		}
	})

	t.Run("discriminant mismatch", func(t *testing.T) {
		moved := layout.VariantDef{Name: "Close", Discriminant: 7}
		ie := mustFail(t, enum(true, open, close_), enum(true, open, moved))
		if !ie.Has(KindDiscriminant) {
			t.Fatalf("want discriminant error, got %v", ie.Flatten())
		}
	})

	t.Run("discriminant encoding mismatch", func(t *testing.T) {
		wide := newLayout(layout.Params{Name: "Event", Size: 8, Data: layout.EnumOf(layout.DiscrU16, open)})
		ie := mustFail(t, enum(true, open), wide)
		if !ie.Has(KindRepr) {
			t.Fatalf("want repr error for discriminant width, got %v", ie.Flatten())
		}
	})
}

func TestTagIncompatibility(t *testing.T) {
	tagged := func(tag layout.Tag) *layout.TypeLayout {
		return newLayout(layout.Params{Name: "Plugin", Size: 8, Data: layout.Opaque(), Tag: tag})
	}

	t.Run("null expected accepts anything", func(t *testing.T) {
		if err := Check(tagged(layout.NullTag()), tagged(layout.StrTag("v2"))); err != nil {
			t.Fatalf("null tag should be a wildcard: %v", err)
		}
	})

	t.Run("value mismatch", func(t *testing.T) {
		e := tagged(layout.MapTag(layout.KV("impl", layout.StrTag("fast"))))
		f := tagged(layout.MapTag(layout.KV("impl", layout.StrTag("slow"))))
		ie := mustFail(t, e, f)
		if !ie.Has(KindTag) {
			t.Fatalf("want tag error, got %v", ie.Flatten())
		}
	})
}

func TestGenericParams(t *testing.T) {
	withGenerics := func(g layout.GenericParams) *layout.TypeLayout {
		return newLayout(layout.Params{Name: "Buf", Size: 8, Data: layout.Opaque(), Generics: g})
	}

	t.Run("arity", func(t *testing.T) {
		e := withGenerics(layout.GenericParams{TypeParams: []string{"T"}})
		f := withGenerics(layout.GenericParams{TypeParams: []string{"T", "U"}})
		if ie := mustFail(t, e, f); !ie.Has(KindGenericParamCount) {
			t.Fatalf("want generic arity error, got %v", ie.Flatten())
		}
	})

	t.Run("const value", func(t *testing.T) {
		param := func(n uint64) layout.GenericParams {
			return layout.GenericParams{ConstParams: []layout.ConstParam{
				{Name: "N", TypeName: "usize", Value: layout.UintTag(n)},
			}}
		}
		if ie := mustFail(t, withGenerics(param(4)), withGenerics(param(8))); !ie.Has(KindConstParam) {
			t.Fatalf("want const param error, got %v", ie.Flatten())
		}
	})
}

func TestErrorsAccumulate(t *testing.T) {
	inner := func(prim layout.Primitive, size uintptr) layout.Ref {
		return layout.NewOnce(func() *layout.TypeLayout {
			return newLayout(layout.Params{Name: "Counter", Size: size, Data: layout.PrimitiveOf(prim)})
		}).Ref()
	}
	outer := func(size, align uintptr, innerRef layout.Ref) *layout.TypeLayout {
		return newLayout(layout.Params{
			Name: "State", Size: size, Alignment: align,
			Data: layout.StructOf(layout.FieldDefs{field("count", innerRef)}),
		})
	}

	e := outer(8, 8, inner(layout.PrimU32, 4))
	f := outer(16, 4, inner(layout.PrimU64, 8))

	ie := mustFail(t, e, f)
	if !ie.Has(KindSize) || !ie.Has(KindAlignment) {
		t.Errorf("shallow errors missing from diff: %v", ie.Flatten())
	}
	var nested *NodeError
	for i := range ie.Nodes {
		if len(ie.Nodes[i].Path) > 0 {
			nested = &ie.Nodes[i]
		}
	}
	if nested == nil {
		t.Fatalf("nested field error missing, got nodes %v", ie.Nodes)
	}
	if nested.Path[0] != "count" {
		t.Errorf("nested path = %v, want [count]", nested.Path)
	}
}

func TestRecursiveLayoutsTerminate(t *testing.T) {
	node := func() *layout.Once {
		var cell *layout.Once
		cell = layout.NewOnce(func() *layout.TypeLayout {
			return newLayout(layout.Params{
				Name: "Node", Size: 16,
				Data: layout.StructOf(layout.FieldDefs{
					field("value", layout.U64Layout.Ref()),
					field("next", func() *layout.TypeLayout { return cell.Get() }),
				}),
			})
		})
		return cell
	}

	a, b := node().Get(), node().Get()
	if err := Check(a, b); err != nil {
		t.Fatalf("identical recursive layouts: %v", err)
	}
}

func TestOpaqueFieldsSkipTypeChecks(t *testing.T) {
	holder := func(typ layout.Ref) *layout.TypeLayout {
		return newLayout(layout.Params{
			Name: "Holder", Size: 8,
			Data: layout.StructOf(layout.FieldDefs{
				{Name: "inner", Type: typ, Accessor: layout.AccessorOpaque},
			}),
		})
	}

	if err := Check(holder(layout.U32Layout.Ref()), holder(layout.StringLayout.Ref())); err != nil {
		t.Fatalf("opaque field should bypass structural checks: %v", err)
	}
}

func TestAccessorMismatch(t *testing.T) {
	holder := func(a layout.Accessor, name string) *layout.TypeLayout {
		return newLayout(layout.Params{
			Name: "Holder", Size: 8,
			Data: layout.StructOf(layout.FieldDefs{
				{Name: "inner", Type: layout.U64Layout.Ref(), Accessor: a, AccessorName: name},
			}),
		})
	}

	for _, tc := range []struct {
		name string
		e, f *layout.TypeLayout
	}{
		{"accessor kind", holder(layout.AccessorDirect, ""), holder(layout.AccessorMethod, "")},
		{"getter name", holder(layout.AccessorMethodNamed, "get_a"), holder(layout.AccessorMethodNamed, "get_b")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if ie := mustFail(t, tc.e, tc.f); !ie.Has(KindFieldAccessor) {
				t.Fatalf("want field accessor error, got %v", ie.Flatten())
			}
		})
	}
}

type rejectAll struct{ reason string }

func (r rejectAll) CheckCompatibility(_, _ *layout.TypeLayout) error {
	return errors.New(r.reason)
}

func TestExtraChecks(t *testing.T) {
	plain := newLayout(layout.Params{Name: "Ext", Size: 8, Data: layout.Opaque()})
	picky := newLayout(layout.Params{Name: "Ext", Size: 8, Data: layout.Opaque(), Extra: rejectAll{"custom invariant broken"}})

	if err := Check(plain, picky); err != nil {
		t.Fatalf("found-side extra checks must not run: %v", err)
	}
	ie := mustFail(t, picky, plain)
	if !ie.Has(KindExtraChecks) {
		t.Fatalf("want extra checks error, got %v", ie.Flatten())
	}
	if !strings.Contains(ie.Error(), "custom invariant broken") {
		t.Errorf("underlying extra check error missing from diagnostic:\n%s", ie.Error())
	}
}
