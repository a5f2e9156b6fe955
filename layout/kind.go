package layout

// DataKind discriminates the shape stored in a TypeLayout's Data.
type DataKind uint8

const (
	KindPrimitive DataKind = iota
	KindStruct
	KindEnum
	KindUnion
	KindOpaque
)

var dataKindNames = [...]string{
	KindPrimitive: "primitive",
	KindStruct:    "struct",
	KindEnum:      "enum",
	KindUnion:     "union",
	KindOpaque:    "opaque",
}

func (k DataKind) String() string {
	if int(k) < len(dataKindNames) {
		return dataKindNames[k]
	}
	return "unknown"
}

// Primitive identifies a leaf type with no internal structure to check
// beyond size, alignment and name.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimU8
	PrimI8
	PrimU16
	PrimI16
	PrimU32
	PrimI32
	PrimU64
	PrimI64
	PrimUsize
	PrimIsize
	PrimF32
	PrimF64
	PrimChar
	PrimConstPtr
	PrimMutPtr
)

var primitiveNames = [...]string{
	PrimBool:     "bool",
	PrimU8:       "u8",
	PrimI8:       "i8",
	PrimU16:      "u16",
	PrimI16:      "i16",
	PrimU32:      "u32",
	PrimI32:      "i32",
	PrimU64:      "u64",
	PrimI64:      "i64",
	PrimUsize:    "usize",
	PrimIsize:    "isize",
	PrimF32:      "f32",
	PrimF64:      "f64",
	PrimChar:     "char",
	PrimConstPtr: "*const",
	PrimMutPtr:   "*mut",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}
