package layout

import "sync/atomic"

// Once is a lazily initialized, address-stable layout cell.
//
// The first Get builds the layout; concurrent first accesses may each run
// the builder, but only one result is published and the duplicates are
// discarded. Publication is a compare-and-swap rather than a mutex because
// layout construction must be usable before other process-wide
// synchronization is guaranteed ready. The builder must therefore be
// idempotent and produce structurally identical results on every call.
//
// Once a layout is published it is returned for the lifetime of the
// process, so the cell's address serves as the type's process-wide
// identity. Declare cells as package-level variables:
//
//	var commandLayout = layout.NewOnce(buildCommandLayout)
type Once struct {
	built atomic.Pointer[TypeLayout]
	build func() *TypeLayout
}

// NewOnce returns an unbuilt cell.
func NewOnce(build func() *TypeLayout) *Once {
	if build == nil {
		panic("layout: nil layout builder")
	}
	return &Once{build: build}
}

// Get returns the layout, building it on first access.
func (o *Once) Get() *TypeLayout {
	if l := o.built.Load(); l != nil {
		return l
	}
	l := o.build()
	if l == nil {
		panic("layout: layout builder returned nil")
	}
	if o.built.CompareAndSwap(nil, l) {
		return l
	}
	return o.built.Load()
}

// Ref returns a reference suitable for FieldDef.Type. Resolution stays lazy
// so mutually recursive types can reference each other's cells freely.
func (o *Once) Ref() Ref {
	return o.Get
}
