package layout

// Ref is a lazily resolved reference to another type's layout.
//
// References are thunks rather than direct pointers so that recursive and
// mutually generic type graphs can be described without initialization
// cycles; a layout is only resolved when a traversal reaches it.
type Ref func() *TypeLayout

// SharedVars is the per-TypeLayout interning arena. Field descriptors store
// indices into it instead of owning their strings, layout references and
// lifetime sets, which keeps large generic type graphs small and shareable.
//
// A SharedVars is populated while its TypeLayout is built and is immutable
// afterwards.
type SharedVars struct {
	strings   map[string]string
	layouts   []Ref
	lifetimes []LifetimeIndex
	consts    []Tag
}

func newSharedVars() *SharedVars {
	return &SharedVars{strings: make(map[string]string)}
}

// internString returns the canonical copy of s.
func (v *SharedVars) internString(s string) string {
	if c, ok := v.strings[s]; ok {
		return c
	}
	v.strings[s] = s
	return s
}

// internLayout stores a layout reference and returns its index.
func (v *SharedVars) internLayout(r Ref) uint16 {
	v.layouts = append(v.layouts, r)
	return uint16(len(v.layouts) - 1)
}

// internLifetimes stores a lifetime set and returns its range.
func (v *SharedVars) internLifetimes(set []LifetimeIndex) lifetimeRange {
	start := len(v.lifetimes)
	v.lifetimes = append(v.lifetimes, set...)
	return lifetimeRange{start: uint16(start), len: uint16(len(set))}
}

// Layout resolves the layout reference at index i.
func (v *SharedVars) Layout(i uint16) *TypeLayout {
	return v.layouts[i]()
}

// lifetimeSet returns the lifetime indices for a stored range.
func (v *SharedVars) lifetimeSet(r lifetimeRange) []LifetimeIndex {
	return v.lifetimes[r.start : r.start+r.len]
}
