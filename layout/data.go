package layout

// Data is the shape stored inside a TypeLayout: one of Primitive, Struct,
// Enum, Union or Opaque.
type Data interface {
	Kind() DataKind
}

// DataDef builds a Data against the owning layout's SharedVars. Obtained
// from PrimitiveOf, StructOf, PrefixOf, EnumOf, UnionOf or Opaque.
type DataDef func(vars *SharedVars) Data

// PrimitiveData is a leaf type.
type PrimitiveData struct {
	Prim Primitive
}

func (PrimitiveData) Kind() DataKind { return KindPrimitive }

// StructData is an ordered field list with an optional growth marker.
type StructData struct {
	fields     []Field
	suffixFrom int
}

func (StructData) Kind() DataKind { return KindStruct }

// Fields returns the declaration-ordered fields.
func (d StructData) Fields() []Field { return d.fields }

// IsPrefix reports whether the struct declared a last-guaranteed-field
// marker, allowing trailing fields to be added in later versions.
func (d StructData) IsPrefix() bool { return d.suffixFrom >= 0 }

// SuffixFrom returns the index of the first conditional suffix field, or -1
// when the struct is frozen. Fields before it form the prefix region that is
// always present.
func (d StructData) SuffixFrom() int { return d.suffixFrom }

// EnumData is an ordered variant list with a discriminant encoding.
type EnumData struct {
	variants   []Variant
	discr      DiscrRepr
	exhaustive bool
}

func (EnumData) Kind() DataKind { return KindEnum }

// Variants returns the declaration-ordered variants.
func (d EnumData) Variants() []Variant { return d.variants }

// Discr returns the discriminant encoding declared for the enum.
func (d EnumData) Discr() DiscrRepr { return d.discr }

// IsExhaustive reports whether the enum's variant set is final. A
// nonexhaustive enum may grow variants in later versions and is exposed
// across the boundary through fixed-size opaque storage.
func (d EnumData) IsExhaustive() bool { return d.exhaustive }

// UnionData is an untagged field overlay.
type UnionData struct {
	fields []Field
}

func (UnionData) Kind() DataKind { return KindUnion }

// Fields returns the union's members.
func (d UnionData) Fields() []Field { return d.fields }

// OpaqueData marks a type whose internals are externally asserted, such as
// an FFI-safe container. Only name, size, alignment and repr are checked.
type OpaqueData struct{}

func (OpaqueData) Kind() DataKind { return KindOpaque }

// Discriminant is the declared discriminant value of an enum variant, as
// the raw bits of the enum's discriminant encoding (sign-extended for
// signed encodings).
type Discriminant int64

// VariantDef declares one enum variant when building a layout.
type VariantDef struct {
	Name         string
	Discriminant Discriminant
	Fields       FieldDefs
}

// Variant is one variant of an enum layout.
type Variant struct {
	name         string
	discriminant Discriminant
	fields       []Field
}

// Name returns the variant's declared name.
func (v Variant) Name() string { return v.name }

// Discriminant returns the variant's declared discriminant value.
func (v Variant) Discriminant() Discriminant { return v.discriminant }

// Fields returns the variant's declaration-ordered fields.
func (v Variant) Fields() []Field { return v.fields }

// PrimitiveOf declares a primitive shape.
func PrimitiveOf(p Primitive) DataDef {
	return func(*SharedVars) Data {
		return PrimitiveData{Prim: p}
	}
}

// StructOf declares a frozen struct: the field list can never grow.
func StructOf(defs FieldDefs) DataDef {
	return func(vars *SharedVars) Data {
		return StructData{fields: internFields(vars, defs), suffixFrom: -1}
	}
}

// PrefixOf declares a growable struct. Fields at indices below suffixFrom
// are the frozen prefix; fields from suffixFrom on are the conditional
// suffix and are marked conditional implicitly. suffixFrom may equal
// len(defs), declaring a prefix type that has not grown yet.
func PrefixOf(suffixFrom int, defs FieldDefs) DataDef {
	if suffixFrom < 0 || suffixFrom > len(defs) {
		panic("layout: suffixFrom out of range")
	}
	return func(vars *SharedVars) Data {
		marked := make(FieldDefs, len(defs))
		copy(marked, defs)
		for i := suffixFrom; i < len(marked); i++ {
			marked[i].Conditional = true
		}
		return StructData{fields: internFields(vars, marked), suffixFrom: suffixFrom}
	}
}

// EnumOf declares an exhaustive enum.
func EnumOf(discr DiscrRepr, variants ...VariantDef) DataDef {
	return enumOf(discr, true, variants)
}

// NonexhaustiveEnumOf declares an enum whose variant set may grow in later
// versions. Values of such enums cross the boundary inside fixed-size
// opaque storage; see package nonexhaustive.
func NonexhaustiveEnumOf(discr DiscrRepr, variants ...VariantDef) DataDef {
	return enumOf(discr, false, variants)
}

func enumOf(discr DiscrRepr, exhaustive bool, defs []VariantDef) DataDef {
	return func(vars *SharedVars) Data {
		variants := make([]Variant, len(defs))
		for i, d := range defs {
			variants[i] = Variant{
				name:         vars.internString(d.Name),
				discriminant: d.Discriminant,
				fields:       internFields(vars, d.Fields),
			}
		}
		return EnumData{variants: variants, discr: discr, exhaustive: exhaustive}
	}
}

// UnionOf declares an untagged union.
func UnionOf(defs FieldDefs) DataDef {
	return func(vars *SharedVars) Data {
		return UnionData{fields: internFields(vars, defs)}
	}
}

// Opaque declares a shape with externally asserted internals.
func Opaque() DataDef {
	return func(*SharedVars) Data {
		return OpaqueData{}
	}
}
