// Package types defines the interfaces shared across dotboot packages.
package types
