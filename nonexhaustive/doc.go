// Package nonexhaustive carries growable enum values across a library
// boundary.
//
// A nonexhaustive enum may gain variants in later library versions. Its
// values therefore travel inside a fixed Storage budget chosen at
// type-definition time, paired with a VTable bound once per (enum type,
// budget) so that a caller built against an older variant set can still
// clone, compare and serialize a value holding a variant it does not
// recognize. Downcasting back to the concrete enum is the only operation
// that can observe an unrecognized variant, and it fails with a typed
// error rather than corrupting anything.
package nonexhaustive
