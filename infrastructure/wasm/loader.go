package wasm

import (
	"context"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/felixuxx/bevy-zig-scripting/domain/entities"
	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
)

// Loader instantiates wasm script modules on a shared wazero runtime.
type Loader struct {
	runtime wazero.Runtime
}

var _ ports.Loader = (*Loader)(nil)

// NewLoader creates the runtime and wires WASI so scripts can use stdio.
// The runtime lives as long as the loader; modules loaded from it follow
// the bridge's never-unload policy and are only torn down with the
// runtime at Close (tests) or process exit.
func NewLoader(ctx context.Context) *Loader {
	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	return &Loader{runtime: rt}
}

// Load reads and instantiates the wasm module at path.
func (l *Loader) Load(ctx context.Context, path string) (ports.Module, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &scripterrors.LoadError{Path: path, Err: err}
	}
	return l.Instantiate(ctx, raw, path)
}

// Instantiate compiles and instantiates raw wasm bytes. Split out from
// Load so tests can feed modules without a file.
func (l *Loader) Instantiate(ctx context.Context, raw []byte, path string) (ports.Module, error) {
	mod, err := l.runtime.Instantiate(ctx, raw)
	if err != nil {
		return nil, &scripterrors.LoadError{Path: path, Err: err}
	}
	return &Module{module: mod, path: path}, nil
}

// Close tears down the runtime and every module instantiated from it.
// Never called during a run; it exists for tests and orderly CLI exit.
func (l *Loader) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}

// Module is an instantiated wasm script module.
type Module struct {
	module api.Module
	path   string
}

var _ ports.Module = (*Module)(nil)

func (m *Module) Path() string {
	return m.path
}

// ResolveInit binds the no-argument initializer export.
func (m *Module) ResolveInit(ep entities.EntryPoint) (ports.InitFunc, error) {
	fn := m.module.ExportedFunction(ep.Name)
	if fn == nil {
		return nil, &scripterrors.SymbolNotFoundError{Symbol: ep.Name, Path: m.path}
	}
	return func(ctx context.Context) error {
		if _, err := fn.Call(ctx); err != nil {
			return fmt.Errorf("call %s: %w", ep.Name, err)
		}
		return nil
	}, nil
}

// ResolveUpdate binds the single-float update export.
func (m *Module) ResolveUpdate(ep entities.EntryPoint) (ports.UpdateFunc, error) {
	fn := m.module.ExportedFunction(ep.Name)
	if fn == nil {
		return nil, &scripterrors.SymbolNotFoundError{Symbol: ep.Name, Path: m.path}
	}
	return func(ctx context.Context, dt float32) error {
		if _, err := fn.Call(ctx, api.EncodeF32(dt)); err != nil {
			return fmt.Errorf("call %s: %w", ep.Name, err)
		}
		return nil
	}, nil
}
