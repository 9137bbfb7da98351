// Package ports defines the interfaces between the bridge and its module
// loader backends.
package ports

import (
	"context"

	"github.com/felixuxx/bevy-zig-scripting/domain/entities"
)

// InitFunc is a resolved one-time initializer. The context is plumbed for
// backends that can observe a call (wasm); the native backend ignores it —
// once a native call starts there is no interrupting it.
type InitFunc func(ctx context.Context) error

// UpdateFunc is a resolved per-tick update taking elapsed seconds.
type UpdateFunc func(ctx context.Context, dt float32) error

// Module is a loaded script module. Resolution is per-symbol: a missing
// export fails that lookup only. A Module handed to the scheduler is never
// unloaded for the remaining life of the process, so resolved funcs stay
// valid as long as the Module that produced them is reachable.
type Module interface {
	// Path returns the filesystem path the module was loaded from.
	Path() string

	// ResolveInit binds the exported initializer named by the descriptor.
	ResolveInit(ep entities.EntryPoint) (InitFunc, error)

	// ResolveUpdate binds the exported per-tick update named by the
	// descriptor.
	ResolveUpdate(ep entities.EntryPoint) (UpdateFunc, error)
}

// Loader loads a script module into the process.
type Loader interface {
	Load(ctx context.Context, path string) (Module, error)
}
