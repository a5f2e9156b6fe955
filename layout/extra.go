package layout

// ExtraChecks is a pluggable comparator a layout may carry for properties
// the structural rules cannot express. The checker delegates to it at every
// node that declares one and folds the result into its error list.
//
// Implementations must be pure: no side effects, no retained references to
// either layout.
type ExtraChecks interface {
	// CheckCompatibility checks that the layout found in a loaded library
	// satisfies the expected layout's extra properties. The expected side
	// is always the layout this comparator is attached to.
	CheckCompatibility(expected, found *TypeLayout) error
}
