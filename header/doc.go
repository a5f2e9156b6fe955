// Package header defines what a library exports at its root: the abi
// preamble that gates everything else, the library's name and semantic
// version, its root module's layout, and the constructor that is only
// invoked once the layouts have been checked.
//
// The preamble is deliberately dumb: a fixed magic string and a format
// version, matched byte-for-byte before any structured decoding happens,
// so that a library built against an incompatible header format is
// rejected without interpreting a single byte of its payload.
package header
