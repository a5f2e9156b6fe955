package layout

import "strconv"

// LifetimeIndex identifies a lifetime parameter a field type references.
// Lifetimes carry only shape: the index of a declared parameter, never a
// concrete region, since regions have no runtime representation.
type LifetimeIndex int16

// LifetimeStatic marks a reference to the static lifetime rather than a
// declared parameter.
const LifetimeStatic LifetimeIndex = -1

func (l LifetimeIndex) String() string {
	if l == LifetimeStatic {
		return "'static"
	}
	return "'" + strconv.Itoa(int(l))
}

// lifetimeRange addresses a field's lifetime set inside SharedVars.
type lifetimeRange struct {
	start uint16
	len   uint16
}
