package layout

import "unsafe"

const wordSize = unsafe.Sizeof(uintptr(0))

func builtinPrim(p Primitive, size, align uintptr) *Once {
	return NewOnce(func() *TypeLayout {
		return New(Params{
			Name:      p.String(),
			Origin:    Origin{Package: "builtin"},
			Size:      size,
			Alignment: align,
			Repr:      ReprC(),
			Data:      PrimitiveOf(p),
		})
	})
}

// Layout cells for the primitive leaf types.
var (
	BoolLayout  = builtinPrim(PrimBool, 1, 1)
	U8Layout    = builtinPrim(PrimU8, 1, 1)
	I8Layout    = builtinPrim(PrimI8, 1, 1)
	U16Layout   = builtinPrim(PrimU16, 2, 2)
	I16Layout   = builtinPrim(PrimI16, 2, 2)
	U32Layout   = builtinPrim(PrimU32, 4, 4)
	I32Layout   = builtinPrim(PrimI32, 4, 4)
	U64Layout   = builtinPrim(PrimU64, 8, 8)
	I64Layout   = builtinPrim(PrimI64, 8, 8)
	UsizeLayout = builtinPrim(PrimUsize, wordSize, wordSize)
	IsizeLayout = builtinPrim(PrimIsize, wordSize, wordSize)
	F32Layout   = builtinPrim(PrimF32, 4, 4)
	F64Layout   = builtinPrim(PrimF64, 8, 8)
	CharLayout  = builtinPrim(PrimChar, 4, 4)
)

// StringLayout is the FFI-safe string container leaf: a pointer plus a
// length. Containers are already-laid-out external types, so only their
// name, size, alignment and repr participate in checking.
var StringLayout = LeafCell("string", 2*wordSize, wordSize)

// LeafCell declares an opaque container leaf, for FFI-safe vectors, maps,
// boxes and similar externally-provided types.
func LeafCell(name string, size, align uintptr) *Once {
	return NewOnce(func() *TypeLayout {
		return New(Params{
			Name:      name,
			Origin:    Origin{Package: "builtin"},
			Size:      size,
			Alignment: align,
			Repr:      ReprC(),
			Data:      Opaque(),
		})
	})
}
