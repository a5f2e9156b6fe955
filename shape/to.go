package shape

import (
	"fmt"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// ToLayout rebuilds a checkable layout graph from a document. The result
// has enough fidelity to run the compatibility checker against a layout
// that was serialized by another process.
func ToLayout(doc *Document) (*layout.TypeLayout, error) {
	if doc.Root < 0 || doc.Root >= len(doc.Types) {
		return nil, errors.InvalidData(errors.PhaseInspect, nil, "root index out of range")
	}

	cells := make([]*layout.Once, len(doc.Types))
	for i := range doc.Types {
		params, err := buildParams(doc, i, cells)
		if err != nil {
			return nil, err
		}
		p := params
		cells[i] = layout.NewOnce(func() *layout.TypeLayout {
			return layout.New(p)
		})
	}
	return cells[doc.Root].Get(), nil
}

func buildParams(doc *Document, i int, cells []*layout.Once) (layout.Params, error) {
	t := doc.Types[i]
	at := func(detail string, args ...any) error {
		return errors.InvalidData(errors.PhaseInspect,
			[]string{fmt.Sprintf("types[%d]", i)},
			fmt.Sprintf(detail, args...))
	}

	if t.Name == "" {
		return layout.Params{}, at("missing type name")
	}
	if t.Align == 0 || t.Align&(t.Align-1) != 0 {
		return layout.Params{}, at("alignment %d is not a power of two", t.Align)
	}

	repr, err := parseRepr(t.Repr, at)
	if err != nil {
		return layout.Params{}, err
	}
	data, err := parseData(doc, t, cells, at)
	if err != nil {
		return layout.Params{}, err
	}
	generics, err := parseGenerics(t.Generics, at)
	if err != nil {
		return layout.Params{}, err
	}
	tag, err := parseTag(t.Tag, at)
	if err != nil {
		return layout.Params{}, err
	}

	return layout.Params{
		Name:      t.Name,
		Origin:    layout.Origin{Package: t.Package, Version: t.Version},
		Size:      uintptr(t.Size),
		Alignment: uintptr(t.Align),
		Repr:      repr,
		Data:      data,
		Generics:  generics,
		Tag:       tag,
	}, nil
}

func parseData(doc *Document, t Type, cells []*layout.Once, at func(string, ...any) error) (layout.DataDef, error) {
	switch t.Kind {
	case layout.KindPrimitive.String():
		prim, ok := primitivesByName[t.Primitive]
		if !ok {
			return nil, at("unknown primitive %q", t.Primitive)
		}
		return layout.PrimitiveOf(prim), nil

	case layout.KindStruct.String():
		defs, err := parseFields(doc, t.Fields, cells, at)
		if err != nil {
			return nil, err
		}
		if t.SuffixFrom != nil {
			if *t.SuffixFrom < 0 || *t.SuffixFrom > len(defs) {
				return nil, at("suffix_from %d out of range", *t.SuffixFrom)
			}
			return layout.PrefixOf(*t.SuffixFrom, defs), nil
		}
		return layout.StructOf(defs), nil

	case layout.KindEnum.String():
		discr, ok := discrsByName[t.Discr]
		if !ok {
			return nil, at("unknown discriminant repr %q", t.Discr)
		}
		variants := make([]layout.VariantDef, len(t.Variants))
		for j, v := range t.Variants {
			fields, err := parseFields(doc, v.Fields, cells, at)
			if err != nil {
				return nil, err
			}
			variants[j] = layout.VariantDef{
				Name:         v.Name,
				Discriminant: layout.Discriminant(v.Discriminant),
				Fields:       fields,
			}
		}
		if t.Exhaustive {
			return layout.EnumOf(discr, variants...), nil
		}
		return layout.NonexhaustiveEnumOf(discr, variants...), nil

	case layout.KindUnion.String():
		defs, err := parseFields(doc, t.Fields, cells, at)
		if err != nil {
			return nil, err
		}
		return layout.UnionOf(defs), nil

	case layout.KindOpaque.String():
		return layout.Opaque(), nil

	default:
		return nil, at("unknown data kind %q", t.Kind)
	}
}

func parseFields(doc *Document, fields []Field, cells []*layout.Once, at func(string, ...any) error) (layout.FieldDefs, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	defs := make(layout.FieldDefs, len(fields))
	for i, f := range fields {
		if f.Type < 0 || f.Type >= len(doc.Types) {
			return nil, at("field %q references type %d of %d", f.Name, f.Type, len(doc.Types))
		}
		accessor := layout.AccessorDirect
		if f.Accessor != "" {
			a, ok := accessorsByName[f.Accessor]
			if !ok {
				return nil, at("field %q has unknown accessor %q", f.Name, f.Accessor)
			}
			accessor = a
		}
		var lifetimes []layout.LifetimeIndex
		for _, l := range f.Lifetimes {
			lifetimes = append(lifetimes, layout.LifetimeIndex(l))
		}
		idx := f.Type
		defs[i] = layout.FieldDef{
			Name:         f.Name,
			Type:         func() *layout.TypeLayout { return cells[idx].Get() },
			Accessor:     accessor,
			AccessorName: f.AccessorName,
			Conditional:  f.Conditional,
			Lifetimes:    lifetimes,
		}
	}
	return defs, nil
}

func parseRepr(r Repr, at func(string, ...any) error) (layout.Repr, error) {
	var out layout.Repr
	switch r.Kind {
	case layout.ReprKindC.String(), "":
		out = layout.ReprC()
	case layout.ReprKindTransparent.String():
		out = layout.ReprTransparent()
	case layout.ReprKindInt.String():
		discr, ok := discrsByName[r.Discr]
		if !ok {
			return layout.Repr{}, at("unknown repr discriminant %q", r.Discr)
		}
		out = layout.ReprInt(discr)
	default:
		return layout.Repr{}, at("unknown repr kind %q", r.Kind)
	}
	if r.ForcedAlign != 0 {
		out = out.WithForcedAlign(uintptr(r.ForcedAlign))
	}
	return out, nil
}

func parseGenerics(g *Generics, at func(string, ...any) error) (layout.GenericParams, error) {
	if g == nil {
		return layout.GenericParams{}, nil
	}
	out := layout.GenericParams{TypeParams: g.TypeParams, Lifetimes: g.Lifetimes}
	for _, c := range g.ConstParams {
		value, err := parseTag(&c.Value, at)
		if err != nil {
			return layout.GenericParams{}, err
		}
		out.ConstParams = append(out.ConstParams, layout.ConstParam{
			Name:     c.Name,
			TypeName: c.TypeName,
			Value:    value,
		})
	}
	return out, nil
}

func parseTag(t *Tag, at func(string, ...any) error) (layout.Tag, error) {
	if t == nil {
		return layout.NullTag(), nil
	}
	switch t.Kind {
	case layout.TagNull.String(), "":
		return layout.NullTag(), nil
	case layout.TagBool.String():
		return layout.BoolTag(t.Bool), nil
	case layout.TagInt.String():
		return layout.IntTag(t.Int), nil
	case layout.TagUint.String():
		return layout.UintTag(t.Uint), nil
	case layout.TagString.String():
		return layout.StrTag(t.Str), nil
	case layout.TagArray.String():
		elems := make([]layout.Tag, len(t.Array))
		for i := range t.Array {
			e, err := parseTag(&t.Array[i], at)
			if err != nil {
				return layout.Tag{}, err
			}
			elems[i] = e
		}
		return layout.ArrTag(elems...), nil
	case layout.TagMap.String():
		entries := make([]layout.KeyValue, len(t.Map))
		for i := range t.Map {
			v, err := parseTag(&t.Map[i].Value, at)
			if err != nil {
				return layout.Tag{}, err
			}
			entries[i] = layout.KV(t.Map[i].Key, v)
		}
		return layout.MapTag(entries...), nil
	default:
		return layout.Tag{}, at("unknown tag kind %q", t.Kind)
	}
}

var primitivesByName = func() map[string]layout.Primitive {
	m := make(map[string]layout.Primitive)
	for p := layout.PrimBool; p <= layout.PrimMutPtr; p++ {
		m[p.String()] = p
	}
	return m
}()

var discrsByName = func() map[string]layout.DiscrRepr {
	m := make(map[string]layout.DiscrRepr)
	for d := layout.DiscrU8; d <= layout.DiscrIsize; d++ {
		m[d.String()] = d
	}
	return m
}()

var accessorsByName = func() map[string]layout.Accessor {
	m := make(map[string]layout.Accessor)
	for a := layout.AccessorDirect; a <= layout.AccessorOpaque; a++ {
		m[a.String()] = a
	}
	return m
}()
