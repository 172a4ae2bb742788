package dotfile

import (
	"bytes"
	"io/fs"

	"github.com/dotboot/dotboot/pkg/errors"
)

// Opaque is a file whose whole content is owned by the declaration.
type Opaque struct {
	content []byte
	mode    fs.FileMode
}

// NewOpaque declares a file with the given content and DefaultPermission.
func NewOpaque(content []byte) *Opaque {
	return &Opaque{
		content: bytes.Clone(content),
		mode:    DefaultPermission,
	}
}

// NewOpaqueString is NewOpaque for text content.
func NewOpaqueString(content string) *Opaque {
	return NewOpaque([]byte(content))
}

// WithPermissions sets the mode applied when the file is written.
func (o *Opaque) WithPermissions(mode fs.FileMode) *Opaque {
	o.mode = mode.Perm()
	return o
}

// Content returns a copy of the declared bytes.
func (o *Opaque) Content() []byte {
	return bytes.Clone(o.content)
}

func (o *Opaque) Kind() Kind { return KindOpaque }

func (o *Opaque) FilePermission() fs.FileMode { return o.mode }

func (o *Opaque) Apply(old []byte) ([]byte, bool, error) {
	if bytes.Equal(o.content, old) {
		return old, false, nil
	}
	return bytes.Clone(o.content), true, nil
}

func (o *Opaque) Merge(other Dotfile) (Dotfile, error) {
	return Merge(o, other)
}

func (o *Opaque) mergeOpaque(other *Opaque) (Dotfile, error) {
	if !bytes.Equal(o.content, other.content) {
		return nil, errors.MergeConflict("Opaque files with different content cannot be merged")
	}
	if o.mode != other.mode {
		return nil, errors.MergeConflict("Opaque files with different permissions cannot be merged")
	}
	return &Opaque{content: bytes.Clone(o.content), mode: o.mode}, nil
}

func (o *Opaque) sealed() {}
