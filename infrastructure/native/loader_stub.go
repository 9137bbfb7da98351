//go:build !(darwin || freebsd || linux)

package native

import (
	"context"
	"errors"

	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
)

// Loader is unavailable on this platform; use the wasm backend instead.
type Loader struct{}

var _ ports.Loader = (*Loader)(nil)

// NewLoader returns a loader whose Load always fails.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reports that native shared-library loading is unsupported here.
func (l *Loader) Load(_ context.Context, path string) (ports.Module, error) {
	return nil, &scripterrors.LoadError{
		Path: path,
		Err:  errors.New("native module loading is not supported on this platform"),
	}
}
