package loader

import (
	"bytes"
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/wirelayer/abiguard/errors"
)

// WASMSource resolves symbols from a compiled WebAssembly library. A
// symbol is an exported nullary function returning one i64 with the guest
// pointer in the high 32 bits and the byte length in the low 32; Symbol
// calls it and copies the bytes out of guest memory.
type WASMSource struct {
	name    string
	runtime wazero.Runtime
	module  api.Module
}

// OpenWASM compiles and instantiates a WebAssembly library. WASI preview 1
// is provided because most toolchains link against it even for pure
// libraries.
func OpenWASM(ctx context.Context, wasmBytes []byte, name string) (*WASMSource, error) {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	mod, err := r.InstantiateWithConfig(ctx, wasmBytes,
		wazero.NewModuleConfig().WithName(name).WithStartFunctions())
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Load("instantiate "+name, err)
	}
	return &WASMSource{name: name, runtime: r, module: mod}, nil
}

// Name implements SymbolSource.
func (s *WASMSource) Name() string { return s.name }

// Symbol implements SymbolSource.
func (s *WASMSource) Symbol(ctx context.Context, name string) ([]byte, error) {
	fn := s.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.SymbolNotFound(name)
	}
	results, err := fn.Call(ctx)
	if err != nil {
		return nil, errors.Load("call "+name, err)
	}
	if len(results) != 1 {
		return nil, errors.Load(name+" did not return a pointer/length pair", nil)
	}

	ptr := uint32(results[0] >> 32)
	length := uint32(results[0])
	data, ok := s.module.Memory().Read(ptr, length)
	if !ok {
		return nil, errors.Load(name+" points outside guest memory", nil)
	}
	// Memory().Read returns a view into guest memory; copy before the
	// guest can touch it again.
	return bytes.Clone(data), nil
}

// Close implements SymbolSource.
func (s *WASMSource) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}
