package abicheck

import (
	"fmt"
	"strings"

	"github.com/wirelayer/abiguard/layout"
)

// Kind identifies one class of layout incompatibility.
type Kind uint8

const (
	// KindName: the two nodes describe differently named types.
	KindName Kind = iota
	// KindSize: recorded sizes differ outside a growable position.
	KindSize
	// KindAlignment: recorded alignments differ.
	KindAlignment
	// KindRepr: representation family, discriminant encoding or forced
	// alignment differ.
	KindRepr
	// KindDataKind: the shapes are of different kinds entirely.
	KindDataKind
	// KindGenericParamCount: type, const or lifetime arity differs.
	KindGenericParamCount
	// KindConstParam: a const generic parameter value differs.
	KindConstParam
	// KindFieldCount: the expected side requires fields the found side
	// does not have, or a frozen struct changed its field count.
	KindFieldCount
	// KindUnexpectedField: a field name differs at some position.
	KindUnexpectedField
	// KindFieldAccessor: a field changed how it is accessed.
	KindFieldAccessor
	// KindFieldLifetimes: a field references different lifetime
	// parameters.
	KindFieldLifetimes
	// KindDiscriminant: an enum variant changed its discriminant value.
	KindDiscriminant
	// KindTooManyVariants: the expected side requires variants the found
	// side does not have, or an exhaustive enum changed its variant count.
	KindTooManyVariants
	// KindUnexpectedVariant: a variant name differs at some position.
	KindUnexpectedVariant
	// KindExtensibility: growth markers disagree: prefixness, the
	// position of the last guaranteed field, or enum exhaustiveness.
	KindExtensibility
	// KindTag: the node's metadata tags are incompatible.
	KindTag
	// KindExtraChecks: the node's pluggable comparator rejected the pair.
	KindExtraChecks
)

var kindNames = [...]string{
	KindName:              "mismatched type name",
	KindSize:              "incompatible type size",
	KindAlignment:         "incompatible type alignment",
	KindRepr:              "incompatible representation",
	KindDataKind:          "incompatible data shape",
	KindGenericParamCount: "incompatible generic parameter count",
	KindConstParam:        "mismatched const parameter",
	KindFieldCount:        "incompatible field count",
	KindUnexpectedField:   "unexpected field",
	KindFieldAccessor:     "mismatched field accessor",
	KindFieldLifetimes:    "field references different lifetimes",
	KindDiscriminant:      "mismatched enum discriminant",
	KindTooManyVariants:   "incompatible variant count",
	KindUnexpectedVariant: "unexpected variant",
	KindExtensibility:     "mismatched growth marker",
	KindTag:               "incompatible tag",
	KindExtraChecks:       "extra checks failed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Instability is one individual discrepancy between an expected and a
// found layout node.
type Instability struct {
	Kind     Kind
	Expected string
	Found    string
	// Err carries the underlying error for KindTag and KindExtraChecks.
	Err error
}

func (i Instability) String() string {
	var b strings.Builder
	b.WriteString(i.Kind.String())
	if i.Expected != "" || i.Found != "" {
		fmt.Fprintf(&b, ": expected %s, found %s", i.Expected, i.Found)
	}
	if i.Err != nil {
		b.WriteString(": ")
		b.WriteString(i.Err.Error())
	}
	return b.String()
}

// NodeError collects every instability found at one node of the diff,
// addressed by the field path that reached it from the root pair.
type NodeError struct {
	// Path holds field and variant names from the root, empty at the
	// root itself.
	Path          []string
	TypeName      string
	Instabilities []Instability
}

// IncompatibilityError is the complete diff between two layout trees.
// The checker finishes the whole reachable traversal before returning it,
// so one failed load produces one complete diagnostic.
type IncompatibilityError struct {
	Expected *layout.TypeLayout
	Found    *layout.TypeLayout
	Nodes    []NodeError
}

func (e *IncompatibilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "incompatible layouts: expected %s, found %s\n",
		e.Expected.FullName(), e.Found.FullName())
	for _, node := range e.Nodes {
		fmt.Fprintf(&b, "%d error(s) at <root>", len(node.Instabilities))
		for _, p := range node.Path {
			b.WriteByte('.')
			b.WriteString(p)
		}
		fmt.Fprintf(&b, ": %s\n", node.TypeName)
		for _, inst := range node.Instabilities {
			fmt.Fprintf(&b, "    %s\n", inst.String())
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Flatten returns every instability across all nodes.
func (e *IncompatibilityError) Flatten() []Instability {
	var all []Instability
	for _, node := range e.Nodes {
		all = append(all, node.Instabilities...)
	}
	return all
}

// Has reports whether any node recorded an instability of kind k.
func (e *IncompatibilityError) Has(k Kind) bool {
	for _, node := range e.Nodes {
		for _, inst := range node.Instabilities {
			if inst.Kind == k {
				return true
			}
		}
	}
	return false
}
