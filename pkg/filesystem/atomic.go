package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dotboot/dotboot/pkg/types"
	"github.com/google/uuid"
)

// tempInfix marks the staging file written next to its destination.
const tempInfix = ".dotboot-"

// AtomicWriteFile writes data to a sibling temp file and renames it over
// name, so readers never observe a half-written file. The temp file lives
// in the same directory to keep the rename on one filesystem, and carries
// a random suffix so concurrent writers never share it.
func AtomicWriteFile(fsys types.FS, name string, data []byte, perm fs.FileMode) error {
	tmp := tempPath(name)

	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func tempPath(name string) string {
	return filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+tempInfix+uuid.NewString())
}
