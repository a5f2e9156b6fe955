package witgen

import (
	"go.bytecodealliance.org/wit"
)

// info is a computed canonical-ABI size and alignment.
type info struct {
	size  uint32
	align uint32
}

func alignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}

// discriminantSize is 1 byte for <=256 cases, 2 for <=65536, else 4.
func discriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

// calc computes canonical-ABI sizes, memoized per TypeDef.
type calc struct {
	cache map[*wit.TypeDef]info
}

func newCalc() *calc {
	return &calc{cache: make(map[*wit.TypeDef]info)}
}

func (c *calc) of(t wit.Type) info {
	switch typ := t.(type) {
	case wit.Bool, wit.U8, wit.S8:
		return info{size: 1, align: 1}
	case wit.U16, wit.S16:
		return info{size: 2, align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return info{size: 4, align: 4}
	case wit.U64, wit.S64, wit.F64:
		return info{size: 8, align: 8}
	case wit.String:
		// Guest pointer plus length.
		return info{size: 8, align: 4}
	case *wit.TypeDef:
		return c.ofTypeDef(typ)
	default:
		return info{size: 0, align: 1}
	}
}

func (c *calc) ofTypeDef(t *wit.TypeDef) info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var out info
	switch kind := t.Kind.(type) {
	case *wit.Record:
		out = c.ofFields(fieldTypes(kind.Fields))
	case *wit.Tuple:
		out = c.ofFields(kind.Types)
	case *wit.Enum:
		d := discriminantSize(len(kind.Cases))
		out = info{size: d, align: d}
	case *wit.Variant:
		out = c.ofCases(discriminantSize(len(kind.Cases)), caseTypes(kind.Cases))
	case *wit.Option:
		out = c.ofCases(1, []wit.Type{kind.Type})
	case *wit.Result:
		out = c.ofCases(1, []wit.Type{kind.OK, kind.Err})
	case *wit.List:
		out = info{size: 8, align: 4}
	case *wit.Flags:
		out = flagsInfo(len(kind.Flags))
	case wit.Type:
		out = c.of(kind)
	default:
		out = info{size: 0, align: 1}
	}

	c.cache[t] = out
	return out
}

func (c *calc) ofFields(types []wit.Type) info {
	if len(types) == 0 {
		return info{size: 0, align: 1}
	}
	maxAlign := uint32(1)
	offset := uint32(0)
	for _, t := range types {
		fi := c.of(t)
		offset = alignTo(offset, fi.align)
		if fi.align > maxAlign {
			maxAlign = fi.align
		}
		offset += fi.size
	}
	return info{size: alignTo(offset, maxAlign), align: maxAlign}
}

// ofCases lays out a discriminant followed by the largest payload.
func (c *calc) ofCases(discSize uint32, payloads []wit.Type) info {
	maxAlign := discSize
	maxSize := uint32(0)
	for _, t := range payloads {
		if t == nil {
			continue
		}
		pi := c.of(t)
		if pi.align > maxAlign {
			maxAlign = pi.align
		}
		if pi.size > maxSize {
			maxSize = pi.size
		}
	}
	payloadOffset := alignTo(discSize, maxAlign)
	return info{size: alignTo(payloadOffset+maxSize, maxAlign), align: maxAlign}
}

func flagsInfo(numFlags int) info {
	switch {
	case numFlags == 0:
		return info{size: 0, align: 1}
	case numFlags <= 8:
		return info{size: 1, align: 1}
	case numFlags <= 16:
		return info{size: 2, align: 2}
	case numFlags <= 32:
		return info{size: 4, align: 4}
	case numFlags <= 64:
		return info{size: 8, align: 8}
	default:
		return info{size: uint32((numFlags + 31) / 32 * 4), align: 4}
	}
}

func fieldTypes(fields []wit.Field) []wit.Type {
	types := make([]wit.Type, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	return types
}

func caseTypes(cases []wit.Case) []wit.Type {
	types := make([]wit.Type, len(cases))
	for i, c := range cases {
		types[i] = c.Type
	}
	return types
}
