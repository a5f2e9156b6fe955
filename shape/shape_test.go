package shape

import (
	"testing"

	"github.com/wirelayer/abiguard/abicheck"
	"github.com/wirelayer/abiguard/layout"
)

func sampleModule() *layout.TypeLayout {
	status := layout.NewOnce(func() *layout.TypeLayout {
		return layout.New(layout.Params{
			Name:      "Status",
			Size:      1,
			Alignment: 1,
			Repr:      layout.ReprInt(layout.DiscrU8),
			Data: layout.NonexhaustiveEnumOf(layout.DiscrU8,
				layout.VariantDef{Name: "Ok", Discriminant: 0},
				layout.VariantDef{Name: "Err", Discriminant: 1, Fields: layout.FieldDefs{
					{Name: "code", Type: layout.U32Layout.Ref()},
				}},
			),
		})
	})
	return layout.New(layout.Params{
		Name:      "Module",
		Size:      40,
		Alignment: 8,
		Repr:      layout.ReprC(),
		Tag:       layout.MapTag(layout.KV("impl", layout.StrTag("reference"))),
		Generics:  layout.GenericParams{Lifetimes: []string{"a"}},
		Data: layout.PrefixOf(3, layout.FieldDefs{
			{Name: "a", Type: layout.U32Layout.Ref()},
			{Name: "b", Type: layout.StringLayout.Ref(), Lifetimes: []layout.LifetimeIndex{0}},
			{Name: "status", Type: status.Ref()},
			{Name: "d", Type: layout.BoolLayout.Ref(), Accessor: layout.AccessorMethodOptional},
		}),
	})
}

func TestRoundTrip(t *testing.T) {
	original := sampleModule()

	doc := FromLayout(original)
	encoded, err := doc.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := ToLayout(decoded)
	if err != nil {
		t.Fatal(err)
	}

	if err := abicheck.Check(original, rebuilt); err != nil {
		t.Fatalf("original vs rebuilt: %v", err)
	}
	if err := abicheck.Check(rebuilt, original); err != nil {
		t.Fatalf("rebuilt vs original: %v", err)
	}

	if rebuilt.FullName() != original.FullName() {
		t.Errorf("FullName = %q, want %q", rebuilt.FullName(), original.FullName())
	}
	if !rebuilt.Tag().Equal(original.Tag()) {
		t.Errorf("tag = %s, want %s", rebuilt.Tag(), original.Tag())
	}
}

func TestSharedTypesCollapse(t *testing.T) {
	doc := FromLayout(sampleModule())

	// u32 is referenced both by the module and by the enum variant; it must
	// appear once.
	var u32Count int
	for _, ty := range doc.Types {
		if ty.Name == "u32" {
			u32Count++
		}
	}
	if u32Count != 1 {
		t.Fatalf("u32 serialized %d times, want 1", u32Count)
	}
}

func TestRecursiveGraphTerminates(t *testing.T) {
	var cell *layout.Once
	cell = layout.NewOnce(func() *layout.TypeLayout {
		return layout.New(layout.Params{
			Name: "Node", Size: 16, Alignment: 8, Repr: layout.ReprC(),
			Data: layout.StructOf(layout.FieldDefs{
				{Name: "value", Type: layout.U64Layout.Ref()},
				{Name: "next", Type: func() *layout.TypeLayout { return cell.Get() }},
			}),
		})
	})

	doc := FromLayout(cell.Get())
	root := doc.Types[doc.Root]
	if root.Fields[1].Type != doc.Root {
		t.Fatalf("self reference points at %d, want root %d", root.Fields[1].Type, doc.Root)
	}

	rebuilt, err := ToLayout(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := abicheck.Check(cell.Get(), rebuilt); err != nil {
		t.Fatalf("recursive round trip: %v", err)
	}
}

func TestToLayoutValidation(t *testing.T) {
	valid := FromLayout(sampleModule())

	for _, tc := range []struct {
		name   string
		mutate func(*Document)
	}{
		{"root out of range", func(d *Document) { d.Root = len(d.Types) }},
		{"missing name", func(d *Document) { d.Types[0].Name = "" }},
		{"bad alignment", func(d *Document) { d.Types[0].Align = 3 }},
		{"unknown kind", func(d *Document) { d.Types[0].Kind = "tuple" }},
		{"dangling field type", func(d *Document) { d.Types[d.Root].Fields[0].Type = 99 }},
		{"unknown primitive", func(d *Document) {
			for i := range d.Types {
				if d.Types[i].Kind == "primitive" {
					d.Types[i].Primitive = "u128"
					return
				}
			}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := valid.Encode()
			if err != nil {
				t.Fatal(err)
			}
			doc, err := Decode(encoded)
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(doc)
			if _, err := ToLayout(doc); err == nil {
				t.Fatal("ToLayout accepted a corrupt document")
			}
		})
	}
}
