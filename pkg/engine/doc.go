// Package engine merges dotfile declarations from several targets and
// applies the result to a filesystem.
//
// MergeDotfiles folds target contributions into one declaration per path.
// Applier.Apply then reads every path, asks its declaration for the new
// content and writes only what changed.
//
// Applying is best effort, not transactional. All new contents are
// computed before the first write, so a declaration that cannot be applied
// leaves the filesystem untouched, but a write failure halfway through a
// batch leaves the earlier paths written. Nothing guards against another
// process modifying a path between the read and the write; dotboot is a
// single user bootstrap tool and runs one apply at a time.
package engine
