package header

import (
	"encoding/binary"

	"github.com/coreos/go-semver/semver"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
	"github.com/wirelayer/abiguard/shape"
)

// Wire layout: magic (32) | major (4) | minor (4) | flags (8) followed by
// length-prefixed name, version and shape-document JSON. Everything after
// the fixed preamble is only interpreted once the preamble has matched.

// Encode serializes the header and its root layout for crossing a real
// boundary.
func (h *LibHeader) Encode() ([]byte, error) {
	doc := shape.FromLayout(h.root.Get())
	payload, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, MagicSize+16+len(h.name)+len(payload)+64)
	buf = append(buf, h.abi.Magic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, h.abi.Major)
	buf = binary.LittleEndian.AppendUint32(buf, h.abi.Minor)
	buf = binary.LittleEndian.AppendUint64(buf, h.flags)
	buf = appendBytes(buf, []byte(h.name))
	buf = appendBytes(buf, []byte(h.version.String()))
	buf = appendBytes(buf, payload)
	return buf, nil
}

// Decoded is a header read back from its wire form.
type Decoded struct {
	Abi     AbiHeader
	Name    string
	Version semver.Version
	Flags   uint64
	Shape   *shape.Document
}

// Layout rebuilds the root module's checkable layout.
func (d *Decoded) Layout() (*layout.TypeLayout, error) {
	return shape.ToLayout(d.Shape)
}

// Decode reads a header from its wire form. The preamble is matched
// against the current build's before any further byte is interpreted.
func Decode(data []byte) (*Decoded, error) {
	if len(data) < MagicSize+16 {
		return nil, errors.PreambleMismatch("%d bytes is shorter than a preamble", len(data))
	}
	var d Decoded
	copy(d.Abi.Magic[:], data[:MagicSize])
	d.Abi.Major = binary.LittleEndian.Uint32(data[MagicSize:])
	d.Abi.Minor = binary.LittleEndian.Uint32(data[MagicSize+4:])
	if err := CurrentAbiHeader().Check(d.Abi); err != nil {
		return nil, err
	}

	d.Flags = binary.LittleEndian.Uint64(data[MagicSize+8:])
	rest := data[MagicSize+16:]

	name, rest, err := readBytes(rest)
	if err != nil {
		return nil, err
	}
	d.Name = string(name)

	version, rest, err := readBytes(rest)
	if err != nil {
		return nil, err
	}
	v, err := semver.NewVersion(string(version))
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseLoad, []string{"version"}, err.Error())
	}
	d.Version = *v

	payload, _, err := readBytes(rest)
	if err != nil {
		return nil, err
	}
	doc, err := shape.Decode(payload)
	if err != nil {
		return nil, err
	}
	d.Shape = doc
	return &d, nil
}

func appendBytes(buf, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func readBytes(data []byte) (field, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, errors.InvalidData(errors.PhaseLoad, nil, "header: truncated length prefix")
	}
	n := binary.LittleEndian.Uint32(data)
	data = data[4:]
	if uint64(len(data)) < uint64(n) {
		return nil, nil, errors.InvalidData(errors.PhaseLoad, nil, "header: truncated field")
	}
	return data[:n], data[n:], nil
}
