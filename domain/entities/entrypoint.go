// Package entities defines the types shared between the bridge and its
// module loader backends.
package entities

import "fmt"

// Signature identifies the calling shape of a script entry point. The
// bridge asserts the signature when binding a symbol; nothing verifies it
// against the module itself.
type Signature string

const (
	// SignatureVoid is a no-argument, no-return entry point.
	SignatureVoid Signature = "func()"

	// SignatureFloat32 takes one float32 (elapsed seconds) and returns
	// nothing.
	SignatureFloat32 Signature = "func(float32)"
)

// EntryPoint describes one named export a script module must provide.
// Descriptors are fixed at compile time; they are the bridge side of the
// script ABI, not data read from the module.
type EntryPoint struct {
	Name      string
	Signature Signature
}

func (e EntryPoint) String() string {
	return fmt.Sprintf("%s %s", e.Name, e.Signature)
}

// Contract is the full set of exports a module must satisfy before the
// bridge activates it. Both entry points are required; resolving only one
// is an activation failure.
type Contract struct {
	Init   EntryPoint
	Update EntryPoint
}

// DefaultContract returns the script ABI this host expects: a one-time
// initializer and a per-tick update taking elapsed seconds.
func DefaultContract() Contract {
	return Contract{
		Init:   EntryPoint{Name: "script_init", Signature: SignatureVoid},
		Update: EntryPoint{Name: "script_update", Signature: SignatureFloat32},
	}
}
