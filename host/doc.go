// Package host drives script modules for the engine: it locates and loads
// the configured module, resolves the required entry points, and invokes
// them on the simulation cadence under the single-thread discipline the
// native boundary requires.
package host
