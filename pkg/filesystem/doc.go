// Package filesystem provides filesystem implementations for dotboot.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem and an afero adapter used by tests and dry runs.
package filesystem
