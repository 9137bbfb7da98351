// Package native loads script modules built as platform shared libraries.
//
// This is the unchecked edge of the system: symbols are bound to the
// signatures the contract asserts, nothing verifies them against the
// module, and a fault inside the module is a fault of the whole process.
package native
