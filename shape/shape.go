package shape

import (
	"encoding/json"

	"github.com/wirelayer/abiguard/errors"
)

// Document is the serialized form of a layout graph. Root indexes into
// Types; field and variant type references are also indices into Types.
type Document struct {
	Root  int    `json:"root"`
	Types []Type `json:"types"`
}

// Type is one serialized type layout.
type Type struct {
	Name     string    `json:"name"`
	Package  string    `json:"package,omitempty"`
	Version  string    `json:"version,omitempty"`
	Size     uint64    `json:"size"`
	Align    uint64    `json:"align"`
	Repr     Repr      `json:"repr"`
	Kind     string    `json:"kind"`
	Generics *Generics `json:"generics,omitempty"`
	Tag      *Tag      `json:"tag,omitempty"`

	// Shape-specific payloads; which ones are present depends on Kind.
	Primitive  string    `json:"primitive,omitempty"`
	Fields     []Field   `json:"fields,omitempty"`
	SuffixFrom *int      `json:"suffix_from,omitempty"`
	Variants   []Variant `json:"variants,omitempty"`
	Discr      string    `json:"discr,omitempty"`
	Exhaustive bool      `json:"exhaustive,omitempty"`
}

// Repr is the serialized representation declaration.
type Repr struct {
	Kind        string `json:"kind"`
	Discr       string `json:"discr,omitempty"`
	ForcedAlign uint64 `json:"forced_align,omitempty"`
}

// Field is one serialized field.
type Field struct {
	Name         string  `json:"name"`
	Type         int     `json:"type"`
	Accessor     string  `json:"accessor,omitempty"`
	AccessorName string  `json:"accessor_name,omitempty"`
	Conditional  bool    `json:"conditional,omitempty"`
	Lifetimes    []int16 `json:"lifetimes,omitempty"`
}

// Variant is one serialized enum variant.
type Variant struct {
	Name         string  `json:"name"`
	Discriminant int64   `json:"discriminant"`
	Fields       []Field `json:"fields,omitempty"`
}

// Generics is the serialized generic parameter list.
type Generics struct {
	TypeParams  []string     `json:"type_params,omitempty"`
	ConstParams []ConstParam `json:"const_params,omitempty"`
	Lifetimes   []string     `json:"lifetimes,omitempty"`
}

// ConstParam is one serialized const generic parameter.
type ConstParam struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name,omitempty"`
	Value    Tag    `json:"value"`
}

// Tag is the serialized tag tree.
type Tag struct {
	Kind  string     `json:"kind"`
	Bool  bool       `json:"bool,omitempty"`
	Int   int64      `json:"int,omitempty"`
	Uint  uint64     `json:"uint,omitempty"`
	Str   string     `json:"str,omitempty"`
	Array []Tag      `json:"array,omitempty"`
	Map   []TagEntry `json:"map,omitempty"`
}

// TagEntry is one serialized tag map entry.
type TagEntry struct {
	Key   string `json:"key"`
	Value Tag    `json:"value"`
}

// Encode renders the document as JSON.
func (d *Document) Encode() ([]byte, error) {
	out, err := json.Marshal(d)
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseInspect, nil, err.Error())
	}
	return out, nil
}

// Decode parses a JSON document.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.InvalidData(errors.PhaseInspect, nil, err.Error())
	}
	if d.Root < 0 || d.Root >= len(d.Types) {
		return nil, errors.InvalidData(errors.PhaseInspect, nil, "root index out of range")
	}
	return &d, nil
}
