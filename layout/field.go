package layout

// Accessor describes how a field is reached from outside its library.
type Accessor uint8

const (
	// AccessorDirect is plain field access.
	AccessorDirect Accessor = iota
	// AccessorMethod is access through a getter named after the field.
	AccessorMethod
	// AccessorMethodNamed is access through a getter with an explicit name.
	AccessorMethodNamed
	// AccessorMethodOptional is access through a getter returning an
	// optional value; used for conditional suffix fields of prefix types.
	AccessorMethodOptional
	// AccessorOpaque marks a field that is excluded from structural
	// checking entirely. The field's ABI stability becomes an
	// externally-asserted fact rather than a derived one.
	AccessorOpaque
)

var accessorNames = [...]string{
	AccessorDirect:         "direct",
	AccessorMethod:         "method",
	AccessorMethodNamed:    "method_named",
	AccessorMethodOptional: "method_optional",
	AccessorOpaque:         "opaque",
}

func (a Accessor) String() string {
	if int(a) < len(accessorNames) {
		return accessorNames[a]
	}
	return "unknown"
}

// FieldDef declares one field when building a layout. Definitions are
// interned into the owning layout's SharedVars to produce Fields.
type FieldDef struct {
	Name         string
	Type         Ref
	Accessor     Accessor
	AccessorName string
	Conditional  bool
	Lifetimes    []LifetimeIndex
}

// FieldDefs is an ordered field declaration list.
type FieldDefs []FieldDef

// Field is one field of a struct, union or enum variant. Its name, type
// reference and lifetime set live in the owning layout's SharedVars.
type Field struct {
	name         string
	accessorName string
	typeRef      uint16
	lifetimes    lifetimeRange
	accessor     Accessor
	conditional  bool
	vars         *SharedVars
}

// Name returns the field's declared name.
func (f Field) Name() string { return f.name }

// Accessor returns how the field is reached.
func (f Field) Accessor() Accessor { return f.accessor }

// AccessorName returns the getter name for AccessorMethodNamed fields.
func (f Field) AccessorName() string { return f.accessorName }

// Conditional reports whether the field is a conditional suffix field of a
// prefix type, which a given library build may not populate.
func (f Field) Conditional() bool { return f.conditional }

// Layout resolves the field's type layout.
func (f Field) Layout() *TypeLayout { return f.vars.Layout(f.typeRef) }

// Lifetimes returns which declared lifetime parameters the field's type
// references.
func (f Field) Lifetimes() []LifetimeIndex { return f.vars.lifetimeSet(f.lifetimes) }

func internFields(vars *SharedVars, defs FieldDefs) []Field {
	fields := make([]Field, len(defs))
	for i, d := range defs {
		fields[i] = Field{
			name:         vars.internString(d.Name),
			accessorName: vars.internString(d.AccessorName),
			typeRef:      vars.internLayout(d.Type),
			lifetimes:    vars.internLifetimes(d.Lifetimes),
			accessor:     d.Accessor,
			conditional:  d.Conditional,
			vars:         vars,
		}
	}
	return fields
}
