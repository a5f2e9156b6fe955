package layout

// ReprKind is the representation family a type was declared with.
type ReprKind uint8

const (
	// ReprKindC lays fields out like C.
	ReprKindC ReprKind = iota
	// ReprKindTransparent gives the type the exact layout of its only
	// non-zero-sized field.
	ReprKindTransparent
	// ReprKindInt is an integer-primitive representation, used by enums
	// declared with an explicit discriminant type.
	ReprKindInt
)

var reprKindNames = [...]string{
	ReprKindC:           "C",
	ReprKindTransparent: "transparent",
	ReprKindInt:         "int",
}

func (k ReprKind) String() string {
	if int(k) < len(reprKindNames) {
		return reprKindNames[k]
	}
	return "unknown"
}

// DiscrRepr is the integer encoding of an enum's discriminant.
type DiscrRepr uint8

const (
	DiscrU8 DiscrRepr = iota
	DiscrI8
	DiscrU16
	DiscrI16
	DiscrU32
	DiscrI32
	DiscrU64
	DiscrI64
	DiscrUsize
	DiscrIsize
)

var discrReprNames = [...]string{
	DiscrU8:    "u8",
	DiscrI8:    "i8",
	DiscrU16:   "u16",
	DiscrI16:   "i16",
	DiscrU32:   "u32",
	DiscrI32:   "i32",
	DiscrU64:   "u64",
	DiscrI64:   "i64",
	DiscrUsize: "usize",
	DiscrIsize: "isize",
}

func (d DiscrRepr) String() string {
	if int(d) < len(discrReprNames) {
		return discrReprNames[d]
	}
	return "unknown"
}

// Size returns the discriminant width in bytes.
func (d DiscrRepr) Size() uintptr {
	switch d {
	case DiscrU8, DiscrI8:
		return 1
	case DiscrU16, DiscrI16:
		return 2
	case DiscrU32, DiscrI32:
		return 4
	default:
		return 8
	}
}

// Repr records the declared representation of a type: the family, the
// discriminant encoding for ReprKindInt, and an optional forced alignment
// (0 when unset, otherwise a power of two).
type Repr struct {
	Kind        ReprKind
	Discr       DiscrRepr
	ForcedAlign uintptr
}

// ReprC returns the plain C representation.
func ReprC() Repr {
	return Repr{Kind: ReprKindC}
}

// ReprTransparent returns the transparent representation.
func ReprTransparent() Repr {
	return Repr{Kind: ReprKindTransparent}
}

// ReprInt returns an integer representation with the given discriminant
// encoding.
func ReprInt(d DiscrRepr) Repr {
	return Repr{Kind: ReprKindInt, Discr: d}
}

// WithForcedAlign returns a copy of r with a forced alignment.
func (r Repr) WithForcedAlign(align uintptr) Repr {
	r.ForcedAlign = align
	return r
}

// Equal reports whether two representations are identical.
func (r Repr) Equal(o Repr) bool {
	return r.Kind == o.Kind && r.Discr == o.Discr && r.ForcedAlign == o.ForcedAlign
}

func (r Repr) String() string {
	switch r.Kind {
	case ReprKindInt:
		return "repr(" + r.Discr.String() + ")"
	default:
		return "repr(" + r.Kind.String() + ")"
	}
}
