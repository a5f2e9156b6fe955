package header

import (
	"bytes"

	"github.com/coreos/go-semver/semver"

	"github.com/wirelayer/abiguard/errors"
)

// MagicSize is the fixed preamble magic length.
const MagicSize = 32

// magic is the preamble identification string, zero-padded to MagicSize.
var magic = func() [MagicSize]byte {
	var m [MagicSize]byte
	copy(m[:], "abiguard library header\xf0")
	return m
}()

// Header format version. While FormatMajor is 0 every minor bump is a
// breaking change, so both numbers must match exactly.
const (
	FormatMajor uint32 = 0
	FormatMinor uint32 = 11
)

// AbiHeader is the preamble every library export starts with.
type AbiHeader struct {
	Magic [MagicSize]byte
	Major uint32
	Minor uint32
}

// CurrentAbiHeader returns the preamble this build writes and expects.
func CurrentAbiHeader() AbiHeader {
	return AbiHeader{Magic: magic, Major: FormatMajor, Minor: FormatMinor}
}

// Check validates a found preamble against h. The magic must match byte
// for byte and the major version exactly; while the major is 0 the minor
// must match too.
func (h AbiHeader) Check(found AbiHeader) error {
	if !bytes.Equal(h.Magic[:], found.Magic[:]) {
		return errors.PreambleMismatch("magic %q does not identify a library header", trimMagic(found.Magic))
	}
	if h.Major != found.Major || (h.Major == 0 && h.Minor != found.Minor) {
		return errors.PreambleMismatch("header format %d.%d, host speaks %d.%d",
			found.Major, found.Minor, h.Major, h.Minor)
	}
	return nil
}

func trimMagic(m [MagicSize]byte) string {
	return string(bytes.TrimRight(m[:], "\x00"))
}

// CheckVersion validates a found library version against the version the
// caller was built for: majors must match and the found minor must be at
// least the expected minor. Pre-1.0 versions promise nothing between
// minors, so there the minors must match exactly.
func CheckVersion(library string, expected, found semver.Version) error {
	compatible := expected.Major == found.Major
	if compatible {
		if expected.Major == 0 {
			compatible = expected.Minor == found.Minor
		} else {
			compatible = found.Minor >= expected.Minor
		}
	}
	if !compatible {
		return errors.VersionMismatch(library, expected.String(), found.String())
	}
	return nil
}
