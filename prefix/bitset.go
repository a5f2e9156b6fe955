package prefix

import "math/bits"

// MaxFields is the largest field count a prefix type may declare; the
// accessibility and conditionality masks are single 64-bit words.
const MaxFields = 64

// FieldAccessibility records which fields a particular library build
// populated, one bit per declaration-ordered field. It travels with the
// value, so an old caller holding a value from a newer build can tell which
// suffix fields exist before touching them.
type FieldAccessibility uint64

// AccessibleUpTo returns a mask with the first n fields set.
func AccessibleUpTo(n int) FieldAccessibility {
	if n <= 0 {
		return 0
	}
	if n >= MaxFields {
		return ^FieldAccessibility(0)
	}
	return FieldAccessibility(1)<<uint(n) - 1
}

// With returns a copy of the mask with field i set.
func (a FieldAccessibility) With(i int) FieldAccessibility {
	if i < 0 || i >= MaxFields {
		return a
	}
	return a | 1<<uint(i)
}

// Has reports whether field i is populated.
func (a FieldAccessibility) Has(i int) bool {
	if i < 0 || i >= MaxFields {
		return false
	}
	return a&(1<<uint(i)) != 0
}

// Count returns how many fields the mask covers.
func (a FieldAccessibility) Count() int {
	return bits.OnesCount64(uint64(a))
}

// Covers reports whether every bit of the required mask is set in a.
func (a FieldAccessibility) Covers(required FieldAccessibility) bool {
	return a&required == required
}

// FieldConditionality records which fields are conditional suffix fields,
// fixed at type-definition time.
type FieldConditionality uint64

// IsConditional reports whether field i belongs to the conditional suffix.
func (c FieldConditionality) IsConditional(i int) bool {
	if i < 0 || i >= MaxFields {
		return false
	}
	return c&(1<<uint(i)) != 0
}
