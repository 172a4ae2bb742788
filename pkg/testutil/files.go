package testutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/dotboot/dotboot/pkg/types"
)

// WriteFiles seeds fsys with path -> content pairs, creating parents.
func WriteFiles(t testing.TB, fsys types.FS, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// ReadString returns the content of path, failing the test if it cannot be read.
func ReadString(t testing.TB, fsys types.FS, path string) string {
	t.Helper()
	content, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

// Mode returns the permission bits of path.
func Mode(t testing.TB, fsys types.FS, path string) fs.FileMode {
	t.Helper()
	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info.Mode().Perm()
}
