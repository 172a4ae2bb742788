// Package dotfile defines the declarations dotboot materializes on disk.
//
// A Dotfile is the desired state of one file, independent of what is
// currently on disk. Two variants exist:
//
//   - Opaque: fixed byte content and a file mode. Applying it replaces the
//     file wholesale.
//   - Structured: a set of named fields from a fixed Schema (for example
//     NixConfSchema). Applying it patches a line oriented "key = value" file,
//     rewriting only the lines of fields it knows and appending missing ones.
//
// The set of variants is closed. Merge combines two declarations for the
// same path and fails with an ErrMergeConflict error when they are of
// different variants or disagree on a single valued field.
//
// Apply never touches the filesystem. It receives the current content and
// reports the new content together with whether anything changed; the
// engine package performs all I/O.
package dotfile
