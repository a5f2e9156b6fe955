// Package abicheck decides whether the type layout found in a loaded
// library is compatible with the layout a host interface expects.
//
// The check is a depth-first structural diff over two layout trees,
// memoized on visited (expected, found) pairs so recursive and generic
// graphs terminate. It never stops at the first mismatch: one failed check
// reports every reachable discrepancy.
//
// Compatibility is deliberately asymmetric. Growable positions, meaning
// the conditional suffix of a prefix struct and the variant set of a
// nonexhaustive enum, may hold more on the found side than the expected
// side assumes, because an old interface must keep working against a newer
// implementation. The reverse is never allowed. Which layout plays which
// role is a fact about the caller (hosts expect, libraries are found) and
// cannot be inferred from the layouts themselves, so Check takes the two
// sides as explicit parameters:
//
//	if err := abicheck.Check(hostLayout, libLayout); err != nil {
//	    var incompat *abicheck.IncompatibilityError
//	    if errors.As(err, &incompat) {
//	        for _, node := range incompat.Nodes {
//	            // node.Path, node.Instabilities
//	        }
//	    }
//	}
package abicheck
