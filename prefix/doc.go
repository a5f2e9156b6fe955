// Package prefix implements growable struct access across a library
// boundary.
//
// A prefix type splits its fields into a frozen prefix, guaranteed by every
// build of the library, and a conditional suffix that later versions may
// extend. A View pairs a concrete value with the accessibility mask of the
// build that produced it; prefix fields are always readable, suffix fields
// are read through TryField or MustField, which consult the mask and the
// missing-field policy declared for the field.
package prefix
