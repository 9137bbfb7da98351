//go:build darwin || freebsd || linux

package native

import (
	"context"

	"github.com/ebitengine/purego"

	"github.com/felixuxx/bevy-zig-scripting/domain/entities"
	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
)

// Loader loads shared libraries with the platform dynamic linker.
type Loader struct{}

var _ ports.Loader = (*Loader)(nil)

// NewLoader returns a loader for native shared libraries.
func NewLoader() *Loader {
	return &Loader{}
}

// Load opens the shared library at path. Relocation happens eagerly
// (RTLD_NOW) so link failures surface here rather than at first call.
//
// The returned module is never closed: resolved entry points are bare
// code addresses underneath, and the runtime has no way to re-validate
// them after a dlclose. Keeping the handle open for the remaining life of
// the process is the documented ownership policy, decided once here
// rather than left to leak by accident.
func (l *Loader) Load(_ context.Context, path string) (ports.Module, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, &scripterrors.LoadError{Path: path, Err: err}
	}
	return &Module{handle: handle, path: path}, nil
}

// Module is a loaded shared library.
type Module struct {
	handle uintptr
	path   string
}

var _ ports.Module = (*Module)(nil)

func (m *Module) Path() string {
	return m.path
}

// ResolveInit binds the no-argument initializer export.
func (m *Module) ResolveInit(ep entities.EntryPoint) (ports.InitFunc, error) {
	if err := m.lookup(ep.Name); err != nil {
		return nil, err
	}
	var fn func()
	purego.RegisterLibFunc(&fn, m.handle, ep.Name)
	return func(context.Context) error {
		fn()
		return nil
	}, nil
}

// ResolveUpdate binds the single-float update export. The float32
// signature is asserted, not verified; a mismatch is undefined behavior
// at the boundary.
func (m *Module) ResolveUpdate(ep entities.EntryPoint) (ports.UpdateFunc, error) {
	if err := m.lookup(ep.Name); err != nil {
		return nil, err
	}
	var fn func(float32)
	purego.RegisterLibFunc(&fn, m.handle, ep.Name)
	return func(_ context.Context, dt float32) error {
		fn(dt)
		return nil
	}, nil
}

// lookup checks symbol presence so a missing export is a per-symbol error
// instead of a bind-time panic.
func (m *Module) lookup(name string) error {
	if _, err := purego.Dlsym(m.handle, name); err != nil {
		return &scripterrors.SymbolNotFoundError{Symbol: name, Path: m.path}
	}
	return nil
}
