// Package scripttest provides in-memory fakes of the module loader ports
// for exercising the invocation scheduler without any loadable artifact.
package scripttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixuxx/bevy-zig-scripting/domain/entities"
	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
)

// Module is a fake ports.Module recording every resolution and call.
type Module struct {
	// ModulePath is reported by Path().
	ModulePath string

	// MissingInit / MissingUpdate make the corresponding resolution fail
	// with SymbolNotFoundError.
	MissingInit   bool
	MissingUpdate bool

	// InitErr / UpdateErr are returned by the resolved funcs when set.
	InitErr   error
	UpdateErr error

	mu sync.Mutex
	// Calls records invocations in order: "init" or "update".
	Calls []string
	// Updates records the dt passed to each update call.
	Updates []float32
}

var _ ports.Module = (*Module)(nil)

func (m *Module) Path() string {
	if m.ModulePath == "" {
		return "scripttest://module"
	}
	return m.ModulePath
}

func (m *Module) ResolveInit(ep entities.EntryPoint) (ports.InitFunc, error) {
	if m.MissingInit {
		return nil, &scripterrors.SymbolNotFoundError{Symbol: ep.Name, Path: m.Path()}
	}
	return func(context.Context) error {
		m.record("init")
		return m.InitErr
	}, nil
}

func (m *Module) ResolveUpdate(ep entities.EntryPoint) (ports.UpdateFunc, error) {
	if m.MissingUpdate {
		return nil, &scripterrors.SymbolNotFoundError{Symbol: ep.Name, Path: m.Path()}
	}
	return func(_ context.Context, dt float32) error {
		m.record("update")
		m.mu.Lock()
		m.Updates = append(m.Updates, dt)
		m.mu.Unlock()
		return m.UpdateErr
	}, nil
}

func (m *Module) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// CallSequence returns a copy of the recorded call order.
func (m *Module) CallSequence() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// Loader is a fake ports.Loader serving a canned Module or error.
type Loader struct {
	Module ports.Module
	Err    error

	// Loaded records every path passed to Load.
	Loaded []string
}

var _ ports.Loader = (*Loader)(nil)

func (l *Loader) Load(_ context.Context, path string) (ports.Module, error) {
	l.Loaded = append(l.Loaded, path)
	if l.Err != nil {
		return nil, l.Err
	}
	if l.Module == nil {
		return nil, fmt.Errorf("scripttest: no module configured for %s", path)
	}
	return l.Module, nil
}
