package layout

import (
	"fmt"
	"strings"
)

// Origin records where a type was declared. Informational only: it appears
// in diagnostics but never participates in compatibility decisions.
type Origin struct {
	Package string
	Version string
	File    string
	Line    int
}

// Params declares a TypeLayout. Passed to New by the builder function of a
// Once cell.
type Params struct {
	Name      string
	Origin    Origin
	Size      uintptr
	Alignment uintptr
	Repr      Repr
	Data      DataDef
	Generics  GenericParams
	Tag       Tag
	Extra     ExtraChecks
}

// TypeLayout is the immutable descriptor of one concrete type
// instantiation. Built exactly once per type through a Once cell and
// compared by address afterwards; never mutated, never deallocated before
// process exit.
type TypeLayout struct {
	name     string
	origin   Origin
	size     uintptr
	align    uintptr
	repr     Repr
	data     Data
	generics GenericParams
	tag      Tag
	extra    ExtraChecks
	vars     *SharedVars
}

// New builds a TypeLayout from its declaration. The result is fully formed:
// every field definition has been interned and every nested reference
// resolves (lazily) to another fully formed layout.
func New(p Params) *TypeLayout {
	if p.Name == "" {
		panic("layout: empty type name")
	}
	if p.Alignment == 0 {
		panic(fmt.Sprintf("layout: %s: zero alignment", p.Name))
	}
	if p.Alignment&(p.Alignment-1) != 0 {
		panic(fmt.Sprintf("layout: %s: alignment %d is not a power of two", p.Name, p.Alignment))
	}
	dataDef := p.Data
	if dataDef == nil {
		dataDef = Opaque()
	}

	vars := newSharedVars()
	return &TypeLayout{
		name:     vars.internString(p.Name),
		origin:   p.Origin,
		size:     p.Size,
		align:    p.Alignment,
		repr:     p.Repr,
		data:     dataDef(vars),
		generics: p.Generics,
		tag:      p.Tag,
		extra:    p.Extra,
		vars:     vars,
	}
}

// Name returns the type's declared name.
func (t *TypeLayout) Name() string { return t.name }

// Origin returns where the type was declared.
func (t *TypeLayout) Origin() Origin { return t.origin }

// Size returns the type's size in bytes.
func (t *TypeLayout) Size() uintptr { return t.size }

// Alignment returns the type's alignment in bytes.
func (t *TypeLayout) Alignment() uintptr { return t.align }

// Repr returns the declared representation.
func (t *TypeLayout) Repr() Repr { return t.repr }

// Data returns the type's shape.
func (t *TypeLayout) Data() Data { return t.data }

// Generics returns the generic arity of the instantiation.
func (t *TypeLayout) Generics() GenericParams { return t.generics }

// Tag returns the metadata tag; the null Tag when none was declared.
func (t *TypeLayout) Tag() Tag { return t.tag }

// Extra returns the pluggable comparator, or nil.
func (t *TypeLayout) Extra() ExtraChecks { return t.extra }

// Vars returns the layout's interning arena.
func (t *TypeLayout) Vars() *SharedVars { return t.vars }

// FullName returns the name with generic arity for diagnostics, e.g.
// "Command<T0, const N>".
func (t *TypeLayout) FullName() string {
	g := t.generics
	if len(g.TypeParams) == 0 && len(g.ConstParams) == 0 && len(g.Lifetimes) == 0 {
		return t.name
	}
	var parts []string
	for _, l := range g.Lifetimes {
		parts = append(parts, "'"+l)
	}
	parts = append(parts, g.TypeParams...)
	for _, c := range g.ConstParams {
		parts = append(parts, "const "+c.Name)
	}
	return t.name + "<" + strings.Join(parts, ", ") + ">"
}

func (t *TypeLayout) String() string {
	return fmt.Sprintf("%s(%s, size=%d, align=%d, %v)",
		t.FullName(), t.data.Kind(), t.size, t.align, t.repr)
}
