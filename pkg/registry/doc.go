// Package registry provides a generic, thread-safe registry that keeps
// items in registration order. dotboot uses it to hold its targets.
package registry
