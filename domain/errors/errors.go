// Package errors provides the error taxonomy for script-module activation.
// All types support unwrapping via errors.As() and errors.Is(). Every error
// here is recoverable: the host degrades to running without scripting.
// Faults raised inside native code once a call has started are not
// representable — nothing at this layer can observe them.
package errors

import "fmt"

// ModuleNotFoundError reports that no loadable module exists at the
// configured path. The usual cause is that the script was never built.
type ModuleNotFoundError struct {
	Path string
	Err  error
}

func (e *ModuleNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("script module not found at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("script module not found at %s", e.Path)
}

func (e *ModuleNotFoundError) Unwrap() error {
	return e.Err
}

// LoadError reports that a module exists but could not be loaded into the
// process (bad format, link failure, unreadable file).
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load script module %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SymbolNotFoundError reports that a loaded module is missing a required
// export.
type SymbolNotFoundError struct {
	Symbol string
	Path   string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("module %s does not export %q", e.Path, e.Symbol)
}

// ThreadAffinityError reports an invocation attempted from an OS thread
// other than the one that activated the module. The call is refused before
// any native code runs.
type ThreadAffinityError struct {
	Want int
	Got  int
}

func (e *ThreadAffinityError) Error() string {
	return fmt.Sprintf("script invocation from thread %d, module is bound to thread %d", e.Got, e.Want)
}
