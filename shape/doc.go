// Package shape is the reflection surface over layout trees.
//
// A Document is a flat, JSON-serializable rendering of a TypeLayout graph:
// every reachable type becomes one table entry and fields reference other
// entries by index, so recursive type graphs serialize without cycles.
// FromLayout renders a live layout; ToLayout rebuilds a checkable layout
// from a document, which is how tooling runs the compatibility checker
// against a library it never loads.
package shape
