package engine

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/filesystem"
	"github.com/dotboot/dotboot/pkg/logging"
	"github.com/dotboot/dotboot/pkg/types"
	"github.com/rs/zerolog"
)

// Operations reported in ErrIO details.
const (
	OpRead           = "read"
	OpWrite          = "write"
	OpSetPermissions = "set_permissions"
)

// dirPermission is used for parent directories created on write.
const dirPermission fs.FileMode = 0755

// Options controls how an Applier writes.
type Options struct {
	// DryRun computes which paths would change without writing anything.
	DryRun bool
	// Atomic writes each file through a temp file and rename.
	Atomic bool
}

// Result reports the outcome of an apply run.
type Result struct {
	// Changed holds the paths whose content was (or, in a dry run, would
	// be) written, sorted.
	Changed []string
	// Unchanged holds the paths left untouched, sorted.
	Unchanged []string
	DryRun    bool
}

// Applier writes merged declarations to a filesystem, one path at a time.
type Applier struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// NewApplier creates an Applier over fsys.
func NewApplier(fsys types.FS, opts Options) *Applier {
	return &Applier{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("engine.apply"),
	}
}

// plannedWrite is the new content computed for one path.
type plannedWrite struct {
	path    string
	content []byte
	mode    fs.FileMode
}

// ApplyDotfiles applies mapping to fsys and returns the changed paths.
func ApplyDotfiles(fsys types.FS, mapping map[string]dotfile.Dotfile) ([]string, error) {
	result, err := NewApplier(fsys, Options{}).Apply(mapping)
	if err != nil {
		return nil, err
	}
	return result.Changed, nil
}

// Apply brings every path of mapping to its declared state. Paths are
// processed in sorted order and the first failure aborts the run; see the
// package documentation for what remains written in that case.
func (a *Applier) Apply(mapping map[string]dotfile.Dotfile) (*Result, error) {
	done := logging.LogOperationStart(a.logger, "apply")
	defer done()

	paths := make([]string, 0, len(mapping))
	for path := range mapping {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := &Result{
		Changed:   []string{},
		Unchanged: []string{},
		DryRun:    a.opts.DryRun,
	}

	var writes []plannedWrite
	for _, path := range paths {
		write, changed, err := a.plan(path, mapping[path])
		if err != nil {
			return nil, err
		}
		if !changed {
			a.logger.Debug().Str("path", path).Msg("Content up to date")
			result.Unchanged = append(result.Unchanged, path)
			continue
		}
		writes = append(writes, write)
	}

	for _, w := range writes {
		if a.opts.DryRun {
			a.logger.Info().Str("path", w.path).Msg("Would write file")
		} else if err := a.commit(w); err != nil {
			return nil, err
		}
		result.Changed = append(result.Changed, w.path)
	}

	a.logger.Info().
		Int("changed", len(result.Changed)).
		Int("unchanged", len(result.Unchanged)).
		Bool("dryRun", a.opts.DryRun).
		Msg("Apply completed")
	return result, nil
}

// plan reads the current content of path and computes its new content.
func (a *Applier) plan(path string, decl dotfile.Dotfile) (plannedWrite, bool, error) {
	if !filepath.IsAbs(path) {
		return plannedWrite{}, false, errors.Newf(errors.ErrInvalidInput, "dotfile path %q is not absolute", path).
			WithDetail(errors.DetailPath, path)
	}

	old, err := a.fs.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return plannedWrite{}, false, errors.IO(err, path, OpRead)
		}
		old = nil
	}

	content, changed, err := decl.Apply(old)
	if err != nil {
		return plannedWrite{}, false, errors.Wrapf(err, errors.ErrApply, "failed to apply %s", path).
			WithDetail(errors.DetailPath, path)
	}

	return plannedWrite{path: path, content: content, mode: decl.FilePermission()}, changed, nil
}

// commit writes one planned file and sets its permissions.
func (a *Applier) commit(w plannedWrite) error {
	if err := a.fs.MkdirAll(filepath.Dir(w.path), dirPermission); err != nil {
		return errors.IO(err, w.path, OpWrite)
	}

	var err error
	if a.opts.Atomic {
		err = filesystem.AtomicWriteFile(a.fs, w.path, w.content, w.mode)
	} else {
		err = a.fs.WriteFile(w.path, w.content, w.mode)
	}
	if err != nil {
		return errors.IO(err, w.path, OpWrite)
	}

	if err := a.fs.Chmod(w.path, w.mode); err != nil {
		return errors.IO(err, w.path, OpSetPermissions)
	}

	a.logger.Info().
		Str("path", w.path).
		Str("mode", w.mode.String()).
		Int("bytes", len(w.content)).
		Msg("Wrote file")
	return nil
}
