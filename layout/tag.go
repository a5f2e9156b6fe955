package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TagKind discriminates the value held by a Tag.
type TagKind uint8

const (
	TagNull TagKind = iota
	TagBool
	TagInt
	TagUint
	TagString
	TagArray
	TagMap
)

var tagKindNames = [...]string{
	TagNull:   "null",
	TagBool:   "bool",
	TagInt:    "int",
	TagUint:   "uint",
	TagString: "string",
	TagArray:  "array",
	TagMap:    "map",
}

func (k TagKind) String() string {
	if int(k) < len(tagKindNames) {
		return tagKindNames[k]
	}
	return "unknown"
}

// Tag is auxiliary metadata attached to a layout node, compared leniently
// during layout checking: a null Tag is a wildcard compatible with anything
// on either side, arrays compare positionally, maps compare per key with
// missing keys tolerated, and every other kind requires exact equality.
//
// The zero value is the null Tag.
type Tag struct {
	kind TagKind
	b    bool
	i    int64
	u    uint64
	s    string
	arr  []Tag
	kvs  []KeyValue
}

// KeyValue is one entry of a map Tag.
type KeyValue struct {
	Key   string
	Value Tag
}

// NullTag returns the wildcard Tag.
func NullTag() Tag { return Tag{} }

// BoolTag returns a bool Tag.
func BoolTag(b bool) Tag { return Tag{kind: TagBool, b: b} }

// IntTag returns a signed integer Tag.
func IntTag(n int64) Tag { return Tag{kind: TagInt, i: n} }

// UintTag returns an unsigned integer Tag.
func UintTag(n uint64) Tag { return Tag{kind: TagUint, u: n} }

// StrTag returns a string Tag.
func StrTag(s string) Tag { return Tag{kind: TagString, s: s} }

// ArrTag returns an ordered array Tag.
func ArrTag(elems ...Tag) Tag { return Tag{kind: TagArray, arr: elems} }

// MapTag returns a map Tag. Entries are stored sorted by key so that two
// maps declaring the same entries in different order are identical.
func MapTag(entries ...KeyValue) Tag {
	kvs := make([]KeyValue, len(entries))
	copy(kvs, entries)
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return Tag{kind: TagMap, kvs: kvs}
}

// KV builds one map entry.
func KV(key string, value Tag) KeyValue {
	return KeyValue{Key: key, Value: value}
}

// Kind returns the tag's kind.
func (t Tag) Kind() TagKind { return t.kind }

// IsNull reports whether the tag is the wildcard.
func (t Tag) IsNull() bool { return t.kind == TagNull }

// Bool returns the bool payload. Valid only for TagBool.
func (t Tag) Bool() bool { return t.b }

// Int returns the signed integer payload. Valid only for TagInt.
func (t Tag) Int() int64 { return t.i }

// Uint returns the unsigned integer payload. Valid only for TagUint.
func (t Tag) Uint() uint64 { return t.u }

// Str returns the string payload. Valid only for TagString.
func (t Tag) Str() string { return t.s }

// Array returns the array payload. Valid only for TagArray.
func (t Tag) Array() []Tag { return t.arr }

// Entries returns the map payload sorted by key. Valid only for TagMap.
func (t Tag) Entries() []KeyValue { return t.kvs }

// Equal reports exact structural equality, with no wildcard semantics.
// Used for const generic parameters, which are compared strictly.
func (t Tag) Equal(o Tag) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case TagNull:
		return true
	case TagBool:
		return t.b == o.b
	case TagInt:
		return t.i == o.i
	case TagUint:
		return t.u == o.u
	case TagString:
		return t.s == o.s
	case TagArray:
		if len(t.arr) != len(o.arr) {
			return false
		}
		for i := range t.arr {
			if !t.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case TagMap:
		if len(t.kvs) != len(o.kvs) {
			return false
		}
		for i := range t.kvs {
			if t.kvs[i].Key != o.kvs[i].Key || !t.kvs[i].Value.Equal(o.kvs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// TagError describes one incompatibility between two tags.
type TagError struct {
	Expected Tag
	Found    Tag
	Path     []string
	Detail   string
}

func (e *TagError) Error() string {
	var b strings.Builder
	b.WriteString("tag mismatch")
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	b.WriteString(": ")
	b.WriteString(e.Detail)
	b.WriteString(" (expected ")
	b.WriteString(e.Expected.String())
	b.WriteString(", found ")
	b.WriteString(e.Found.String())
	b.WriteByte(')')
	return b.String()
}

// CheckCompatible checks that the tag found in a loaded library satisfies
// the tag t expected by the interface. A null on either side is compatible
// with anything, which lets metadata be introduced in a minor version
// without breaking consumers that never declared it.
func (t Tag) CheckCompatible(found Tag) *TagError {
	return t.checkCompatible(found, nil)
}

func (t Tag) checkCompatible(found Tag, path []string) *TagError {
	if t.kind == TagNull || found.kind == TagNull {
		return nil
	}
	if t.kind != found.kind {
		return &TagError{
			Expected: t,
			Found:    found,
			Path:     path,
			Detail:   fmt.Sprintf("mismatched kind: %v vs %v", t.kind, found.kind),
		}
	}

	switch t.kind {
	case TagBool, TagInt, TagUint, TagString:
		if !t.Equal(found) {
			return &TagError{Expected: t, Found: found, Path: path, Detail: "mismatched value"}
		}
	case TagArray:
		if len(t.arr) != len(found.arr) {
			return &TagError{
				Expected: t,
				Found:    found,
				Path:     path,
				Detail:   fmt.Sprintf("mismatched array length: %d vs %d", len(t.arr), len(found.arr)),
			}
		}
		for i := range t.arr {
			elemPath := append(path, strconv.Itoa(i))
			if err := t.arr[i].checkCompatible(found.arr[i], elemPath); err != nil {
				return err
			}
		}
	case TagMap:
		// Both sides are sorted by key; a key present on only one side
		// is compatible by definition.
		i, j := 0, 0
		for i < len(t.kvs) && j < len(found.kvs) {
			tk, fk := t.kvs[i], found.kvs[j]
			switch {
			case tk.Key < fk.Key:
				i++
			case tk.Key > fk.Key:
				j++
			default:
				entryPath := append(path, tk.Key)
				if err := tk.Value.checkCompatible(fk.Value, entryPath); err != nil {
					return err
				}
				i++
				j++
			}
		}
	}
	return nil
}

func (t Tag) String() string {
	switch t.kind {
	case TagNull:
		return "null"
	case TagBool:
		return strconv.FormatBool(t.b)
	case TagInt:
		return strconv.FormatInt(t.i, 10)
	case TagUint:
		return strconv.FormatUint(t.u, 10)
	case TagString:
		return strconv.Quote(t.s)
	case TagArray:
		parts := make([]string, len(t.arr))
		for i, e := range t.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagMap:
		parts := make([]string, len(t.kvs))
		for i, kv := range t.kvs {
			parts[i] = strconv.Quote(kv.Key) + ": " + kv.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "unknown"
}
