package loader

import (
	"bytes"
	"context"
	"sync"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/header"
)

// HeaderSymbol is the fixed export name every library publishes its
// encoded root header under.
const HeaderSymbol = "abiguard_root_header"

// SymbolSource resolves named symbols to their byte contents. It is the
// only thing the load sequence needs from a library container.
type SymbolSource interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Symbol returns the bytes behind an exported symbol.
	Symbol(ctx context.Context, name string) ([]byte, error)
	// Close releases the source's resources.
	Close(ctx context.Context) error
}

// ConstructorSource is implemented by sources that can hand the loader a
// live root module constructor, which only in-process sources can.
type ConstructorSource interface {
	Constructor() header.Constructor
}

// ProcSource is an in-process SymbolSource, used for same-process plugins
// and tests. Symbols are plain byte registrations.
type ProcSource struct {
	name string
	ctor header.Constructor

	mu      sync.RWMutex
	symbols map[string][]byte
}

// NewProcSource creates an empty in-process source.
func NewProcSource(name string) *ProcSource {
	return &ProcSource{name: name, symbols: make(map[string][]byte)}
}

// NewProcLibrary builds an in-process source publishing a library header
// the way a real library would: encoded under HeaderSymbol, with the
// constructor available in-process.
func NewProcLibrary(h *header.LibHeader) (*ProcSource, error) {
	wire, err := h.Encode()
	if err != nil {
		return nil, err
	}
	s := NewProcSource(h.Name())
	s.Define(HeaderSymbol, wire)
	s.ctor = h.Constructor()
	return s, nil
}

// Define registers a symbol. Redefinition replaces the previous content.
func (s *ProcSource) Define(symbol string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[symbol] = bytes.Clone(data)
}

// Name implements SymbolSource.
func (s *ProcSource) Name() string { return s.name }

// Symbol implements SymbolSource.
func (s *ProcSource) Symbol(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.symbols[name]
	if !ok {
		return nil, errors.SymbolNotFound(name)
	}
	return bytes.Clone(data), nil
}

// Close implements SymbolSource.
func (s *ProcSource) Close(context.Context) error { return nil }

// Constructor implements ConstructorSource.
func (s *ProcSource) Constructor() header.Constructor { return s.ctor }
