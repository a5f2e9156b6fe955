package layout

// ConstParam is one const generic parameter of a concrete instantiation.
// The value is represented explicitly as a typed, structurally-compared
// Tag rather than inferred from usage, since every concrete instantiation
// gets its own layout descriptor.
type ConstParam struct {
	Name     string
	TypeName string
	Value    Tag
}

// Equal reports exact equality of name, type and value.
func (c ConstParam) Equal(o ConstParam) bool {
	return c.Name == o.Name && c.TypeName == o.TypeName && c.Value.Equal(o.Value)
}

// GenericParams records the generic arity of a type: how many type
// parameters it takes, the const parameter values of this instantiation,
// and how many lifetime parameters it declares. Lifetimes carry names for
// diagnostics only; compatibility compares counts.
type GenericParams struct {
	TypeParams  []string
	ConstParams []ConstParam
	Lifetimes   []string
}

// TypeParamCount returns the number of type parameters.
func (g GenericParams) TypeParamCount() int { return len(g.TypeParams) }

// LifetimeCount returns the number of declared lifetime parameters.
func (g GenericParams) LifetimeCount() int { return len(g.Lifetimes) }
