package dotfile

import (
	"fmt"
	"io/fs"

	"github.com/dotboot/dotboot/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Kind identifies the variant of a Dotfile.
type Kind int

const (
	KindOpaque Kind = iota
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindStructured:
		return "structured"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DefaultPermission is the mode written files get unless a declaration says otherwise.
const DefaultPermission fs.FileMode = 0644

// Dotfile is a declaration of the desired state of one file.
//
// Implementations live in this package only.
type Dotfile interface {
	Kind() Kind

	// Apply computes the new file content from the current one. changed is
	// false when the result is byte-identical to old, in which case the file
	// must not be written.
	Apply(old []byte) (content []byte, changed bool, err error)

	// FilePermission is the mode set whenever the file is written.
	FilePermission() fs.FileMode

	// Merge returns the combination of the receiver and other. Neither
	// operand is modified.
	Merge(other Dotfile) (Dotfile, error)

	sealed()
}

// Merge combines two declarations for the same path.
func Merge(x, y Dotfile) (Dotfile, error) {
	if x.Kind() != y.Kind() {
		return nil, errors.MergeConflict(
			fmt.Sprintf("Cannot merge %s dotfile with %s dotfile", x.Kind(), y.Kind()))
	}

	switch x.Kind() {
	case KindOpaque:
		return x.(*Opaque).mergeOpaque(y.(*Opaque))
	case KindStructured:
		return x.(structuredDotfile).structured().mergeStructured(y.(structuredDotfile).structured())
	default:
		return nil, errors.Newf(errors.ErrInternal, "unknown dotfile kind %s", x.Kind())
	}
}

// structuredDotfile is implemented by *Structured and the typed wrappers
// embedding it.
type structuredDotfile interface {
	structured() *Structured
}

const utf8Encoding = "utf8"

// applyText decodes old as UTF-8 text and runs patch on it.
func applyText(old []byte, patch func(text string) (string, error)) ([]byte, bool, error) {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, old); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrTextEncoding, "existing content is not valid utf8").
			WithDetail(errors.DetailExpectedEncoding, utf8Encoding).
			WithDetail(errors.DetailMessage, err.Error())
	}

	text := string(old)
	patched, err := patch(text)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrApply, "failed to compute new content")
	}

	if patched == text {
		return old, false, nil
	}
	return []byte(patched), true, nil
}
