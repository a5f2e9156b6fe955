package header

import (
	"github.com/coreos/go-semver/semver"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
)

// Constructor builds the library's root module handle. The loader invokes
// it only after the preamble, version and layout checks all passed.
type Constructor func() (any, error)

// LibHeader is the in-process side of a library's root export: what a
// library author declares once and the loader consumes.
type LibHeader struct {
	abi     AbiHeader
	name    string
	version semver.Version
	flags   uint64
	root    *layout.Once
	ctor    Constructor
}

// NewLibHeader declares a library's root export. The version must be valid
// semver; the root cell resolves to the root module's layout.
func NewLibHeader(name, version string, root *layout.Once, ctor Constructor) (*LibHeader, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseBuild, "header: empty library name")
	}
	if root == nil {
		return nil, errors.InvalidInput(errors.PhaseBuild, "header: nil root layout for "+name)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Symbol(name).
			Detail("header: version %q is not semver", version).
			Cause(err).
			Build()
	}
	return &LibHeader{
		abi:     CurrentAbiHeader(),
		name:    name,
		version: *v,
		root:    root,
		ctor:    ctor,
	}, nil
}

// Abi returns the preamble the header carries.
func (h *LibHeader) Abi() AbiHeader { return h.abi }

// Name returns the library name.
func (h *LibHeader) Name() string { return h.name }

// Version returns the library's semantic version.
func (h *LibHeader) Version() semver.Version { return h.version }

// Flags returns the library's feature flag bits.
func (h *LibHeader) Flags() uint64 { return h.flags }

// WithFlags returns a copy of the header with feature flag bits set.
func (h *LibHeader) WithFlags(flags uint64) *LibHeader {
	c := *h
	c.flags = flags
	return &c
}

// Layout resolves the root module's layout.
func (h *LibHeader) Layout() *layout.TypeLayout { return h.root.Get() }

// Constructor returns the root module constructor, which may be nil for
// inspection-only headers.
func (h *LibHeader) Constructor() Constructor { return h.ctor }
