package shape

import (
	"github.com/wirelayer/abiguard/layout"
)

// FromLayout renders a layout graph as a flat document. Every type
// reachable from the root through non-opaque fields gets one table entry;
// shared and recursive references collapse to the same index.
func FromLayout(root *layout.TypeLayout) *Document {
	r := &renderer{index: make(map[*layout.TypeLayout]int)}
	rootIdx := r.render(root)
	return &Document{Root: rootIdx, Types: r.types}
}

type renderer struct {
	index map[*layout.TypeLayout]int
	types []Type
}

func (r *renderer) render(lt *layout.TypeLayout) int {
	if i, ok := r.index[lt]; ok {
		return i
	}
	// Reserve the slot before descending so cycles resolve to it.
	idx := len(r.types)
	r.index[lt] = idx
	r.types = append(r.types, Type{})

	origin := lt.Origin()
	t := Type{
		Name:    lt.Name(),
		Package: origin.Package,
		Version: origin.Version,
		Size:    uint64(lt.Size()),
		Align:   uint64(lt.Alignment()),
		Repr:    renderRepr(lt.Repr()),
		Kind:    lt.Data().Kind().String(),
	}
	if g := lt.Generics(); g.TypeParamCount() > 0 || len(g.ConstParams) > 0 || g.LifetimeCount() > 0 {
		t.Generics = renderGenerics(g)
	}
	if tag := lt.Tag(); !tag.IsNull() {
		rendered := renderTag(tag)
		t.Tag = &rendered
	}

	switch data := lt.Data().(type) {
	case layout.PrimitiveData:
		t.Primitive = data.Prim.String()
	case layout.StructData:
		t.Fields = r.renderFields(data.Fields())
		if data.IsPrefix() {
			suffix := data.SuffixFrom()
			t.SuffixFrom = &suffix
		}
	case layout.EnumData:
		t.Discr = data.Discr().String()
		t.Exhaustive = data.IsExhaustive()
		for _, v := range data.Variants() {
			t.Variants = append(t.Variants, Variant{
				Name:         v.Name(),
				Discriminant: int64(v.Discriminant()),
				Fields:       r.renderFields(v.Fields()),
			})
		}
	case layout.UnionData:
		t.Fields = r.renderFields(data.Fields())
	}

	r.types[idx] = t
	return idx
}

func (r *renderer) renderFields(fields []layout.Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{
			Name:         f.Name(),
			Type:         r.render(f.Layout()),
			Conditional:  f.Conditional(),
			AccessorName: f.AccessorName(),
		}
		if f.Accessor() != layout.AccessorDirect {
			out[i].Accessor = f.Accessor().String()
		}
		if lts := f.Lifetimes(); len(lts) > 0 {
			indices := make([]int16, len(lts))
			for j, l := range lts {
				indices[j] = int16(l)
			}
			out[i].Lifetimes = indices
		}
	}
	return out
}

func renderRepr(r layout.Repr) Repr {
	out := Repr{Kind: r.Kind.String(), ForcedAlign: uint64(r.ForcedAlign)}
	if r.Kind == layout.ReprKindInt {
		out.Discr = r.Discr.String()
	}
	return out
}

func renderGenerics(g layout.GenericParams) *Generics {
	out := &Generics{TypeParams: g.TypeParams, Lifetimes: g.Lifetimes}
	for _, c := range g.ConstParams {
		out.ConstParams = append(out.ConstParams, ConstParam{
			Name:     c.Name,
			TypeName: c.TypeName,
			Value:    renderTag(c.Value),
		})
	}
	return out
}

func renderTag(t layout.Tag) Tag {
	out := Tag{Kind: t.Kind().String()}
	switch t.Kind() {
	case layout.TagBool:
		out.Bool = t.Bool()
	case layout.TagInt:
		out.Int = t.Int()
	case layout.TagUint:
		out.Uint = t.Uint()
	case layout.TagString:
		out.Str = t.Str()
	case layout.TagArray:
		for _, e := range t.Array() {
			out.Array = append(out.Array, renderTag(e))
		}
	case layout.TagMap:
		for _, kv := range t.Entries() {
			out.Map = append(out.Map, TagEntry{Key: kv.Key, Value: renderTag(kv.Value)})
		}
	}
	return out
}
