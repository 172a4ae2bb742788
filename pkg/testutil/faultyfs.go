package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dotboot/dotboot/pkg/types"
)

// Operations that can be made to fail.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpChmod  = "chmod"
	OpMkdir  = "mkdir"
	OpRename = "rename"
)

type fault struct {
	op   string
	path string
}

// FaultyFS wraps a types.FS and injects errors for selected operations.
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults map[fault]error
	writes []string
}

// NewFaultyFS wraps base.
func NewFaultyFS(base types.FS) *FaultyFS {
	return &FaultyFS{
		FS:     base,
		faults: make(map[fault]error),
	}
}

// FailOn makes op on path return err.
func (f *FaultyFS) FailOn(op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[fault{op: op, path: filepath.Clean(path)}] = err
	return f
}

// Writes returns the paths successfully written, in order.
func (f *FaultyFS) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

func (f *FaultyFS) injected(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faults[fault{op: op, path: filepath.Clean(path)}]
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.injected(OpRead, name); err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return f.FS.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.injected(OpWrite, name); err != nil {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	if err := f.FS.WriteFile(name, data, perm); err != nil {
		return err
	}
	f.mu.Lock()
	f.writes = append(f.writes, name)
	f.mu.Unlock()
	return nil
}

func (f *FaultyFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.injected(OpChmod, name); err != nil {
		return &fs.PathError{Op: "chmod", Path: name, Err: err}
	}
	return f.FS.Chmod(name, mode)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.injected(OpMkdir, path); err != nil {
		return &fs.PathError{Op: "mkdir", Path: path, Err: err}
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.injected(OpRename, newpath); err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	return f.FS.Rename(oldpath, newpath)
}
