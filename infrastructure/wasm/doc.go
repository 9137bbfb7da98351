// Package wasm loads script modules compiled to WebAssembly.
//
// The module satisfies the same two-export contract as a native shared
// library, with one difference the scheduler exploits: traps inside the
// module surface as errors instead of taking the process down.
package wasm
