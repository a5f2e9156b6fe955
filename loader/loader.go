package loader

import (
	"context"

	"github.com/coreos/go-semver/semver"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wirelayer/abiguard/abicheck"
	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/header"
	"github.com/wirelayer/abiguard/layout"
)

// Options declares what the caller was built against: the library it wants
// and the root module layout its own code assumes.
type Options struct {
	// Library is the expected library name; empty skips the name check.
	Library string
	// Version is the minimum compatible library version; nil skips the
	// version check.
	Version *semver.Version
	// Expected is the host's root module layout. Required.
	Expected *layout.Once
}

// Module is a successfully loaded and checked library.
type Module struct {
	// ID identifies this load in logs; every load gets a fresh one.
	ID      uuid.UUID
	Source  string
	Header  *header.Decoded
	Layout  *layout.TypeLayout
	root    any
	hasRoot bool
}

// Load runs the checked load sequence against a source. Steps, in order:
// resolve the header symbol, match the preamble exactly, verify library
// name and version, rebuild the found layout, run the compatibility check
// against Expected, and finally invoke the constructor when the source has
// one. Any failure means no library code has run.
func Load(ctx context.Context, src SymbolSource, opts Options) (*Module, error) {
	if opts.Expected == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "loader: no expected layout")
	}

	id := uuid.New()
	log := Logger().With(
		zap.String("load_id", id.String()),
		zap.String("source", src.Name()),
	)

	wire, err := src.Symbol(ctx, HeaderSymbol)
	if err != nil {
		return nil, err
	}
	decoded, err := header.Decode(wire)
	if err != nil {
		log.Warn("header rejected", zap.Error(err))
		return nil, err
	}
	log = log.With(
		zap.String("library", decoded.Name),
		zap.String("version", decoded.Version.String()),
	)

	if opts.Library != "" && opts.Library != decoded.Name {
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Symbol(opts.Library).
			Detail("source %s publishes library %q", src.Name(), decoded.Name).
			Build()
	}
	if opts.Version != nil {
		if err := header.CheckVersion(decoded.Name, *opts.Version, decoded.Version); err != nil {
			log.Warn("version rejected", zap.Error(err))
			return nil, err
		}
	}

	found, err := decoded.Layout()
	if err != nil {
		return nil, err
	}
	expected := opts.Expected.Get()
	if err := abicheck.Check(expected, found); err != nil {
		log.Warn("layout rejected", zap.Error(err))
		return nil, errors.LayoutIncompatible(expected.FullName(), err)
	}

	m := &Module{ID: id, Source: src.Name(), Header: decoded, Layout: found}
	if cs, ok := src.(ConstructorSource); ok {
		if ctor := cs.Constructor(); ctor != nil {
			root, err := ctor()
			if err != nil {
				log.Warn("constructor failed", zap.Error(err))
				return nil, errors.Load("construct root module of "+decoded.Name, err)
			}
			m.root = root
			m.hasRoot = true
		}
	}

	log.Info("library loaded", zap.Bool("constructed", m.hasRoot))
	return m, nil
}

// Root returns the module's constructed root handle as T.
func Root[T any](m *Module) (T, error) {
	var zero T
	if !m.hasRoot {
		return zero, errors.NotFound(errors.PhaseLoad, "root module", m.Header.Name)
	}
	typed, ok := m.root.(T)
	if !ok {
		return zero, errors.InvalidData(errors.PhaseLoad, nil,
			"loader: root module of "+m.Header.Name+" has an unexpected concrete type")
	}
	return typed, nil
}
