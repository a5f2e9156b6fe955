package header

import (
	stderrors "errors"
	"testing"

	"github.com/coreos/go-semver/semver"

	"github.com/wirelayer/abiguard/abicheck"
	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

func rootCell() *layout.Once {
	return layout.NewOnce(func() *layout.TypeLayout {
		return layout.New(layout.Params{
			Name: "Module", Size: 16, Alignment: 8, Repr: layout.ReprC(),
			Data: layout.PrefixOf(2, layout.FieldDefs{
				{Name: "open", Type: layout.U32Layout.Ref()},
				{Name: "close", Type: layout.U32Layout.Ref()},
			}),
		})
	})
}

func TestAbiHeaderCheck(t *testing.T) {
	current := CurrentAbiHeader()

	if err := current.Check(current); err != nil {
		t.Fatalf("current preamble rejected: %v", err)
	}

	for _, tc := range []struct {
		name   string
		mutate func(*AbiHeader)
	}{
		{"corrupt magic", func(h *AbiHeader) { h.Magic[0] = 'x' }},
		{"major bump", func(h *AbiHeader) { h.Major++ }},
		{"minor bump while major is zero", func(h *AbiHeader) { h.Minor++ }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			found := current
			tc.mutate(&found)
			err := current.Check(found)
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != errors.KindPreambleMismatch {
				t.Fatalf("got %v, want preamble_mismatch", err)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	v := func(s string) semver.Version { return *semver.New(s) }

	for _, tc := range []struct {
		expected, found string
		ok              bool
	}{
		{"1.2.0", "1.2.0", true},
		{"1.2.0", "1.5.3", true},
		{"1.5.0", "1.2.0", false},
		{"1.2.0", "2.0.0", false},
		{"0.3.0", "0.3.9", true},
		{"0.3.0", "0.4.0", false},
	} {
		err := CheckVersion("lib", v(tc.expected), v(tc.found))
		if (err == nil) != tc.ok {
			t.Errorf("CheckVersion(%s, %s) = %v, want ok=%v", tc.expected, tc.found, err, tc.ok)
		}
	}
}

func TestNewLibHeaderValidation(t *testing.T) {
	if _, err := NewLibHeader("", "1.0.0", rootCell(), nil); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := NewLibHeader("lib", "not-a-version", rootCell(), nil); err == nil {
		t.Error("malformed version accepted")
	}
	if _, err := NewLibHeader("lib", "1.0.0", nil, nil); err == nil {
		t.Error("nil root accepted")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h, err := NewLibHeader("testlib", "1.4.2", rootCell(), nil)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := h.WithFlags(0b101).Encode()
	if err != nil {
		t.Fatal(err)
	}

	d, err := Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "testlib" || d.Version.String() != "1.4.2" || d.Flags != 0b101 {
		t.Fatalf("decoded = %q %s %b", d.Name, d.Version, d.Flags)
	}

	found, err := d.Layout()
	if err != nil {
		t.Fatal(err)
	}
	if err := abicheck.Check(h.Layout(), found); err != nil {
		t.Fatalf("decoded layout incompatible with original: %v", err)
	}
}

func TestDecodeRefusesBadPreambleFirst(t *testing.T) {
	h, err := NewLibHeader("testlib", "1.0.0", rootCell(), nil)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := h.Encode()
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the magic and also truncate the payload: the preamble error
	// must win because nothing after it gets parsed.
	wire[0] = 'x'
	wire = wire[:MagicSize+20]

	_, err = Decode(wire)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindPreambleMismatch {
		t.Fatalf("got %v, want preamble_mismatch", err)
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	h, err := NewLibHeader("testlib", "1.0.0", rootCell(), nil)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := h.Encode()
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{0, MagicSize, MagicSize + 16, len(wire) - 1} {
		if _, err := Decode(wire[:n]); err == nil {
			t.Errorf("Decode accepted %d-byte truncation", n)
		}
	}
}
