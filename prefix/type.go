package prefix

import (
	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// MissingFieldPolicy decides what a policy-applying accessor does when the
// value's build did not populate the requested suffix field.
type MissingFieldPolicy uint8

const (
	// PolicyAbort panics on access to a missing field. It is the default:
	// reading a field the caller never declared a fallback for is a
	// contract violation, not a runtime condition.
	PolicyAbort MissingFieldPolicy = iota
	// PolicyDefault returns the accessor's fallback value.
	PolicyDefault
)

var policyNames = [...]string{
	PolicyAbort:   "abort",
	PolicyDefault: "default",
}

func (p MissingFieldPolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

// FieldPolicy assigns a missing-field policy to one suffix field by its
// declaration index.
type FieldPolicy struct {
	Index  int
	Policy MissingFieldPolicy
}

// Type is the definition-time description of a prefix type: its layout, the
// conditionality mask derived from it, and the per-field missing-field
// policies. Policies are fixed here, never at access sites, so every caller
// of a given type observes the same missing-field behavior.
type Type struct {
	cell       *layout.Once
	name       string
	suffixFrom int
	fieldCount int
	cond       FieldConditionality
	policies   []MissingFieldPolicy
}

// NewType describes a prefix type from its layout cell. The cell must
// resolve to a growable struct with at most MaxFields fields; policies may
// only target conditional suffix fields.
func NewType(cell *layout.Once, policies ...FieldPolicy) (*Type, error) {
	lt := cell.Get()
	data, ok := lt.Data().(layout.StructData)
	if !ok || !data.IsPrefix() {
		return nil, errors.InvalidInput(errors.PhaseBuild,
			"prefix: "+lt.FullName()+" is not a growable struct")
	}
	fields := data.Fields()
	if len(fields) > MaxFields {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(lt.FullName()).
			Detail("prefix: %d fields exceeds the %d-field mask", len(fields), MaxFields).
			Build()
	}

	t := &Type{
		cell:       cell,
		name:       lt.FullName(),
		suffixFrom: data.SuffixFrom(),
		fieldCount: len(fields),
		policies:   make([]MissingFieldPolicy, len(fields)),
	}
	for i, f := range fields {
		if f.Conditional() {
			t.cond |= 1 << uint(i)
		}
	}
	for _, p := range policies {
		if !t.cond.IsConditional(p.Index) {
			return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				TypeName(t.name).
				Detail("prefix: field %d is guaranteed, policies apply to suffix fields only", p.Index).
				Build()
		}
		t.policies[p.Index] = p.Policy
	}
	return t, nil
}

// MustType is NewType for static type definitions.
func MustType(cell *layout.Once, policies ...FieldPolicy) *Type {
	t, err := NewType(cell, policies...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the described type's full name.
func (t *Type) Name() string { return t.name }

// Layout resolves the described type's layout.
func (t *Type) Layout() *layout.TypeLayout { return t.cell.Get() }

// SuffixFrom returns the index of the first conditional suffix field.
func (t *Type) SuffixFrom() int { return t.suffixFrom }

// FieldCount returns the declared field count.
func (t *Type) FieldCount() int { return t.fieldCount }

// Conditionality returns the definition-time conditionality mask.
func (t *Type) Conditionality() FieldConditionality { return t.cond }

// PolicyFor returns the missing-field policy declared for field i.
func (t *Type) PolicyFor(i int) MissingFieldPolicy {
	if i < 0 || i >= len(t.policies) {
		return PolicyAbort
	}
	return t.policies[i]
}

// prefixMask returns the accessibility a build must provide at minimum.
func (t *Type) prefixMask() FieldAccessibility {
	return AccessibleUpTo(t.suffixFrom)
}
