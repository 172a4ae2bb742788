package dotfile

import (
	"fmt"
	"io/fs"
)

// FieldKind says how a structured field is parsed, merged and rendered.
type FieldKind int

const (
	// ListField holds a set of whitespace separated tokens. Merging takes
	// the union; rendering is sorted, deduplicated and space joined.
	ListField FieldKind = iota
	// OptionalField holds at most one value, kept verbatim. Two different
	// values for the same field are a merge conflict.
	OptionalField
)

func (k FieldKind) String() string {
	switch k {
	case ListField:
		return "list"
	case OptionalField:
		return "optional"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field describes one recognized key of a structured file.
type Field struct {
	Name string
	Kind FieldKind
}

// Schema is the fixed set of fields a Structured declaration may own in a
// file. Field order is the order missing lines are appended in.
type Schema struct {
	name   string
	mode   fs.FileMode
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. It panics on duplicate field names since
// schemas are static tables.
func NewSchema(name string, mode fs.FileMode, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		mode:   mode,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("dotfile: duplicate field %q in schema %s", f.Name, name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Name identifies the schema in messages.
func (s *Schema) Name() string { return s.name }

// Fields returns the schema fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *Schema) lookup(name string, kind FieldKind) int {
	i, ok := s.index[name]
	if !ok {
		panic(fmt.Sprintf("dotfile: unknown field %q in schema %s", name, s.name))
	}
	if s.fields[i].Kind != kind {
		panic(fmt.Sprintf("dotfile: field %q in schema %s is a %s field", name, s.name, s.fields[i].Kind))
	}
	return i
}
