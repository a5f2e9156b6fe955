// Package layout models the memory layout of types shared across a
// dynamic-library boundary.
//
// A TypeLayout is an immutable descriptor of one concrete type
// instantiation: its size, alignment, representation, shape (fields or
// variants), generic arity, and optional metadata Tag. Layouts are built
// exactly once per type, lazily, through a Once cell, and are compared by
// address afterwards; two layouts describing the same type within one
// process are the same pointer.
//
// Library authors register layouts with an explicit builder:
//
//	var commandLayout = layout.NewOnce(func() *layout.TypeLayout {
//	    return layout.New(layout.Params{
//	        Name:      "Command",
//	        Origin:    layout.Origin{Package: "shellrpc", Version: "1.2.0"},
//	        Size:      24,
//	        Alignment: 8,
//	        Repr:      layout.ReprC(),
//	        Data: layout.StructOf(layout.FieldDefs{
//	            {Name: "id", Type: layout.U64Layout},
//	            {Name: "name", Type: layout.StringLayout},
//	        }),
//	    })
//	})
//
// Field types are referenced through thunks (Ref) interned in the layout's
// SharedVars, so recursive and generic type graphs stay small and are
// terminable to traverse.
//
// The compatibility rules over these descriptors live in package abicheck.
package layout
