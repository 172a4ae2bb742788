package dotfile

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/dotboot/dotboot/pkg/errors"
)

// value holds one field of a Structured declaration. Only the member
// matching the field kind is used.
type value struct {
	list []string
	set  bool
	opt  string
}

// Structured declares a set of fields of a line oriented "key = value"
// file. It is additive: applying it keeps every line it does not own.
type Structured struct {
	schema *Schema
	values []value
}

// NewStructured returns an empty declaration for schema.
func NewStructured(schema *Schema) *Structured {
	return &Structured{
		schema: schema,
		values: make([]value, len(schema.fields)),
	}
}

// Add appends values to a list field. Each value is split on whitespace,
// the same way a list line is read back. It panics if field is not a list
// field of the schema.
func (s *Structured) Add(field string, values ...string) *Structured {
	i := s.schema.lookup(field, ListField)
	for _, v := range values {
		s.values[i].list = append(s.values[i].list, strings.Fields(v)...)
	}
	return s
}

// Set assigns an optional field. It panics if field is not an optional
// field of the schema or v spans more than one line.
func (s *Structured) Set(field, v string) *Structured {
	i := s.schema.lookup(field, OptionalField)
	if strings.ContainsAny(v, "\r\n") {
		panic(fmt.Sprintf("dotfile: value for field %q in schema %s contains a line break", field, s.schema.name))
	}
	s.values[i] = value{set: true, opt: v}
	return s
}

// List returns the normalized values of a list field.
func (s *Structured) List(field string) []string {
	i := s.schema.lookup(field, ListField)
	return normalizeList(s.values[i].list)
}

// Value returns an optional field and whether it is set.
func (s *Structured) Value(field string) (string, bool) {
	i := s.schema.lookup(field, OptionalField)
	return s.values[i].opt, s.values[i].set
}

// Schema returns the schema of the declaration.
func (s *Structured) Schema() *Schema { return s.schema }

func (s *Structured) Kind() Kind { return KindStructured }

func (s *Structured) FilePermission() fs.FileMode { return s.schema.mode }

func (s *Structured) Merge(other Dotfile) (Dotfile, error) {
	return Merge(s, other)
}

func (s *Structured) mergeStructured(other *Structured) (Dotfile, error) {
	if s.schema != other.schema {
		return nil, errors.MergeConflict(fmt.Sprintf(
			"Cannot merge structured dotfiles of different schemas (%s, %s)",
			s.schema.name, other.schema.name))
	}
	merged, err := mergeValues(s, other)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeValues combines x and y field by field. Lists are unioned; an
// optional field set to different values on both sides is a conflict.
func mergeValues(x, y *Structured) (*Structured, error) {
	merged := NewStructured(x.schema)
	for i, field := range x.schema.fields {
		a, b := x.values[i], y.values[i]
		switch field.Kind {
		case ListField:
			merged.values[i].list = normalizeList(append(slices.Clone(a.list), b.list...))
		case OptionalField:
			switch {
			case a.set && b.set && a.opt != b.opt:
				return nil, errors.MergeConflict("Conflicting values set for "+field.Name).
					WithDetail(errors.DetailField, field.Name)
			case a.set:
				merged.values[i] = a
			case b.set:
				merged.values[i] = b
			}
		}
	}
	return merged, nil
}

func normalizeList(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// Apply patches the existing file. Lines of known fields are rewritten in
// place with the merge of the file value and the declared value; fields
// without a line are appended in schema order. Everything else is kept
// byte for byte at its position.
func (s *Structured) Apply(old []byte) ([]byte, bool, error) {
	return applyText(old, s.patch)
}

func (s *Structured) patch(text string) (string, error) {
	lines := splitLines(text)

	existing, lineOf := s.schema.parse(lines)

	merged, err := mergeValues(s, existing)
	if err != nil {
		return "", err
	}

	for i, field := range s.schema.fields {
		rendered, ok := renderField(field, merged.values[i])
		if !ok {
			continue
		}
		if idx, found := lineOf[i]; found {
			if strings.HasSuffix(lines[idx], "\r") {
				rendered += "\r"
			}
			lines[idx] = rendered
		} else {
			lines = append(lines, rendered)
		}
	}

	return joinLines(lines), nil
}

// parse reads the values of all schema fields present in lines along with
// the index of the line each came from. A later line for the same field
// wins. A trailing "\r" is not part of the value; patch keeps it on the
// rewritten line.
func (s *Schema) parse(lines []string) (*Structured, map[int]int) {
	existing := NewStructured(s)
	lineOf := make(map[int]int)

	for idx, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		for i, field := range s.fields {
			rest, ok := strings.CutPrefix(line, field.Name+" = ")
			if !ok {
				continue
			}
			switch field.Kind {
			case ListField:
				existing.values[i] = value{list: strings.Fields(rest)}
			case OptionalField:
				existing.values[i] = value{set: true, opt: rest}
			}
			lineOf[i] = idx
		}
	}

	return existing, lineOf
}

func renderField(field Field, v value) (string, bool) {
	switch field.Kind {
	case ListField:
		if len(v.list) == 0 {
			return "", false
		}
		return field.Name + " = " + strings.Join(v.list, " "), true
	case OptionalField:
		if !v.set {
			return "", false
		}
		return field.Name + " = " + v.opt, true
	}
	return "", false
}

// splitLines splits on "\n". A trailing newline does not start an extra
// empty line and an empty text has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinLines is the inverse of splitLines. A final empty line needs the
// terminating newline, otherwise splitting the result would drop it.
func joinLines(lines []string) string {
	text := strings.Join(lines, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		text += "\n"
	}
	return text
}

func (s *Structured) structured() *Structured { return s }

func (s *Structured) sealed() {}
