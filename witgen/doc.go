// Package witgen derives layout descriptors from WIT type definitions.
//
// A library whose boundary types are declared in WIT gets its layouts from
// the schema instead of writing them by hand: records become structs,
// enums and variants become enums with a discriminant sized to the case
// count, strings and lists become opaque container leaves. Sizes and
// alignments follow the Component Model canonical ABI.
package witgen
