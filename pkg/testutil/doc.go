// Package testutil provides utilities for testing dotboot components.
//
// Key components:
//   - FaultyFS: a types.FS wrapper that fails chosen operations on chosen
//     paths and records the writes it lets through
//   - WriteFiles / ReadString: seed and inspect an in-memory filesystem
//
// Tests should run against filesystem.NewMemory() unless they exercise
// real OS behavior.
package testutil
