// Package abiguard provides load-time layout compatibility checking for
// dynamically loaded libraries.
//
// A library describes the memory layout of its root type as a TypeLayout
// graph. When a binary loads that library, the loader compares the layout
// the binary expects against the layout the library actually shipped and
// refuses to continue if they are incompatible. The comparison is
// structural and asymmetric: a library may grow prefix types and
// nonexhaustive enums without breaking older binaries, while any change
// an older binary could observe is reported as an incompatibility.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	abiguard/            Root package documentation
//	├── layout/          TypeLayout data model and lazy layout cells
//	├── abicheck/        Structural compatibility checker
//	├── prefix/          Suffix-growable struct views with field accessibility
//	├── nonexhaustive/   Fixed-budget storage for growable enums
//	├── shape/           Portable JSON encoding of layout graphs
//	├── header/          Library preamble and versioned header encoding
//	├── loader/          Header discovery, checking, and root construction
//	├── witgen/          Layouts derived from WIT type definitions
//	├── catalog/         SQLite archive of published shapes
//	├── errors/          Structured error types shared by all phases
//	└── cmd/abiguard/    CLI for inspecting, diffing, and browsing shapes
//
// # Quick Start
//
// A library publishes a header for its root type:
//
//	var rootCell = layout.NewOnce(func() *layout.TypeLayout {
//	    return layout.New(layout.Params{
//	        Name: "Module",
//	        Size: 24, Alignment: 8,
//	        Data: layout.PrefixOf(2, []layout.FieldDef{
//	            {Name: "open", Type: layout.U32Layout.Ref()},
//	            {Name: "close", Type: layout.U32Layout.Ref()},
//	        }),
//	    })
//	})
//
//	hdr, err := header.NewLibHeader("example", "1.2.0", rootCell, newModule)
//
// A binary loads it and gets a checked root value back:
//
//	mod, err := loader.Load(ctx, src, loader.Options{
//	    Library:  "example",
//	    Expected: rootCell,
//	})
//	if err != nil {
//	    log.Fatal(err) // includes the full incompatibility list
//	}
//	root, err := loader.Root[*Module](mod)
//
// # Compatibility Model
//
// Check(expected, found) walks both graphs in lockstep and accumulates
// every instability instead of stopping at the first. The direction
// matters: the expected side is what the binary was compiled against,
// the found side is what the library shipped. Growth is tolerated only
// where the expected layout opted into it (prefix structs past their
// suffix marker, nonexhaustive enums), so Check(a, b) == nil does not
// imply Check(b, a) == nil.
//
// # Thread Safety
//
// Layout cells, the checker, and bound vtables are safe for concurrent
// use. A prefix.View and a loader.Module are immutable after creation.
package abiguard
