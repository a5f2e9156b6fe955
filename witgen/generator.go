package witgen

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// stringCell is the canonical-ABI string container: guest pointer plus
// length. It deliberately differs from the host-side string leaf.
var stringCell = layout.LeafCell("string", 8, 4)

// Generator converts WIT types into layout cells. Conversions are memoized
// per TypeDef, so a type graph that shares or recurses into a definition
// yields one cell per definition.
type Generator struct {
	calc  *calc
	cells map[*wit.TypeDef]*layout.Once
	names map[*wit.TypeDef]string
}

func NewGenerator() *Generator {
	return &Generator{
		calc:  newCalc(),
		cells: make(map[*wit.TypeDef]*layout.Once),
		names: make(map[*wit.TypeDef]string),
	}
}

// ParseType parses a WIT type expression and converts it under the given
// name.
func (g *Generator) ParseType(name, expr string) (*layout.Once, error) {
	t, err := wit.ParseType(expr)
	if err != nil {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(name).
			Detail("witgen: parse %q", expr).
			Cause(err).
			Build()
	}
	return g.Define(name, t)
}

// Define converts a WIT type into a layout cell, naming it when the type
// itself is anonymous.
func (g *Generator) Define(name string, t wit.Type) (*layout.Once, error) {
	if err := g.validate(t, make(map[*wit.TypeDef]struct{})); err != nil {
		return nil, err
	}
	if td, ok := t.(*wit.TypeDef); ok {
		if name != "" {
			g.names[td] = name
		}
		return g.cellFor(td), nil
	}
	cell, err := g.primitiveCell(t)
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// validate walks the type graph up front so the lazy build closures can
// assume every reachable kind converts.
func (g *Generator) validate(t wit.Type, seen map[*wit.TypeDef]struct{}) error {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		if t == nil {
			return nil
		}
		_, err := g.primitiveCell(t)
		return err
	}
	if _, done := seen[td]; done {
		return nil
	}
	seen[td] = struct{}{}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			if err := g.validate(f.Type, seen); err != nil {
				return err
			}
		}
	case *wit.Tuple:
		for _, ft := range kind.Types {
			if err := g.validate(ft, seen); err != nil {
				return err
			}
		}
	case *wit.Variant:
		for _, c := range kind.Cases {
			if err := g.validate(c.Type, seen); err != nil {
				return err
			}
		}
	case *wit.Option:
		return g.validate(kind.Type, seen)
	case *wit.Result:
		if err := g.validate(kind.OK, seen); err != nil {
			return err
		}
		return g.validate(kind.Err, seen)
	case *wit.List:
		return g.validate(kind.Type, seen)
	case *wit.Enum, *wit.Flags:
		return nil
	case wit.Type:
		return g.validate(kind, seen)
	default:
		return errors.InvalidInput(errors.PhaseBuild,
			fmt.Sprintf("witgen: unsupported WIT kind %T", td.Kind))
	}
	return nil
}

func (g *Generator) cellFor(td *wit.TypeDef) *layout.Once {
	if cell, ok := g.cells[td]; ok {
		return cell
	}
	cell := layout.NewOnce(func() *layout.TypeLayout {
		return g.build(td)
	})
	g.cells[td] = cell
	return cell
}

func (g *Generator) refFor(t wit.Type) layout.Ref {
	if td, ok := t.(*wit.TypeDef); ok {
		return g.cellFor(td).Ref()
	}
	cell, err := g.primitiveCell(t)
	if err != nil {
		// validate already rejected unsupported kinds.
		panic(err)
	}
	return cell.Ref()
}

func (g *Generator) primitiveCell(t wit.Type) (*layout.Once, error) {
	switch t.(type) {
	case wit.Bool:
		return layout.BoolLayout, nil
	case wit.U8:
		return layout.U8Layout, nil
	case wit.S8:
		return layout.I8Layout, nil
	case wit.U16:
		return layout.U16Layout, nil
	case wit.S16:
		return layout.I16Layout, nil
	case wit.U32:
		return layout.U32Layout, nil
	case wit.S32:
		return layout.I32Layout, nil
	case wit.U64:
		return layout.U64Layout, nil
	case wit.S64:
		return layout.I64Layout, nil
	case wit.F32:
		return layout.F32Layout, nil
	case wit.F64:
		return layout.F64Layout, nil
	case wit.Char:
		return layout.CharLayout, nil
	case wit.String:
		return stringCell, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseBuild,
			fmt.Sprintf("witgen: unsupported WIT type %T", t))
	}
}

func (g *Generator) build(td *wit.TypeDef) *layout.TypeLayout {
	ci := g.calc.ofTypeDef(td)
	name := g.nameFor(td)
	params := layout.Params{
		Name:      name,
		Origin:    layout.Origin{Package: "wit"},
		Size:      uintptr(ci.size),
		Alignment: uintptr(ci.align),
		Repr:      layout.ReprC(),
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		defs := make(layout.FieldDefs, len(kind.Fields))
		for i, f := range kind.Fields {
			defs[i] = layout.FieldDef{Name: f.Name, Type: g.refFor(f.Type)}
		}
		params.Data = layout.StructOf(defs)

	case *wit.Tuple:
		defs := make(layout.FieldDefs, len(kind.Types))
		for i, ft := range kind.Types {
			defs[i] = layout.FieldDef{Name: fmt.Sprintf("f%d", i), Type: g.refFor(ft)}
		}
		params.Data = layout.StructOf(defs)

	case *wit.Enum:
		discr := discrReprFor(len(kind.Cases))
		variants := make([]layout.VariantDef, len(kind.Cases))
		for i, c := range kind.Cases {
			variants[i] = layout.VariantDef{Name: c.Name, Discriminant: layout.Discriminant(i)}
		}
		params.Repr = layout.ReprInt(discr)
		params.Data = layout.EnumOf(discr, variants...)

	case *wit.Variant:
		discr := discrReprFor(len(kind.Cases))
		variants := make([]layout.VariantDef, len(kind.Cases))
		for i, c := range kind.Cases {
			variants[i] = layout.VariantDef{Name: c.Name, Discriminant: layout.Discriminant(i)}
			if c.Type != nil {
				variants[i].Fields = layout.FieldDefs{{Name: "payload", Type: g.refFor(c.Type)}}
			}
		}
		params.Repr = layout.ReprInt(discr)
		params.Data = layout.EnumOf(discr, variants...)

	case *wit.Option:
		params.Repr = layout.ReprInt(layout.DiscrU8)
		params.Data = layout.EnumOf(layout.DiscrU8,
			layout.VariantDef{Name: "none", Discriminant: 0},
			layout.VariantDef{Name: "some", Discriminant: 1, Fields: layout.FieldDefs{
				{Name: "payload", Type: g.refFor(kind.Type)},
			}},
		)

	case *wit.Result:
		ok := layout.VariantDef{Name: "ok", Discriminant: 0}
		if kind.OK != nil {
			ok.Fields = layout.FieldDefs{{Name: "payload", Type: g.refFor(kind.OK)}}
		}
		er := layout.VariantDef{Name: "error", Discriminant: 1}
		if kind.Err != nil {
			er.Fields = layout.FieldDefs{{Name: "payload", Type: g.refFor(kind.Err)}}
		}
		params.Repr = layout.ReprInt(layout.DiscrU8)
		params.Data = layout.EnumOf(layout.DiscrU8, ok, er)

	case *wit.List, *wit.Flags:
		// Containers with externally managed internals.
		params.Data = layout.Opaque()

	case wit.Type:
		// Plain alias: take the underlying layout under the alias name.
		under := g.refFor(kind)()
		params.Size = under.Size()
		params.Alignment = under.Alignment()
		params.Repr = layout.ReprTransparent()
		params.Data = layout.StructOf(layout.FieldDefs{
			{Name: "value", Type: g.refFor(kind)},
		})
	}

	return layout.New(params)
}

func discrReprFor(numCases int) layout.DiscrRepr {
	switch discriminantSize(numCases) {
	case 1:
		return layout.DiscrU8
	case 2:
		return layout.DiscrU16
	default:
		return layout.DiscrU32
	}
}

// nameFor returns the registered name or a structural one for anonymous
// definitions.
func (g *Generator) nameFor(td *wit.TypeDef) string {
	if name, ok := g.names[td]; ok {
		return name
	}
	var name string
	switch kind := td.Kind.(type) {
	case *wit.Record:
		names := make([]string, len(kind.Fields))
		for i, f := range kind.Fields {
			names[i] = f.Name
		}
		name = "record{" + strings.Join(names, ", ") + "}"
	case *wit.Tuple:
		exprs := make([]string, len(kind.Types))
		for i, t := range kind.Types {
			exprs[i] = g.typeExpr(t)
		}
		name = "tuple<" + strings.Join(exprs, ", ") + ">"
	case *wit.Enum:
		names := make([]string, len(kind.Cases))
		for i, c := range kind.Cases {
			names[i] = c.Name
		}
		name = "enum{" + strings.Join(names, ", ") + "}"
	case *wit.Variant:
		names := make([]string, len(kind.Cases))
		for i, c := range kind.Cases {
			names[i] = c.Name
		}
		name = "variant{" + strings.Join(names, ", ") + "}"
	case *wit.Option:
		name = "option<" + g.typeExpr(kind.Type) + ">"
	case *wit.Result:
		name = "result<" + g.typeExpr(kind.OK) + ", " + g.typeExpr(kind.Err) + ">"
	case *wit.List:
		name = "list<" + g.typeExpr(kind.Type) + ">"
	case *wit.Flags:
		name = fmt.Sprintf("flags(%d)", len(kind.Flags))
	default:
		name = "alias"
	}
	g.names[td] = name
	return name
}

func (g *Generator) typeExpr(t wit.Type) string {
	switch t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	}
	if td, ok := t.(*wit.TypeDef); ok {
		return g.nameFor(td)
	}
	return "unknown"
}
