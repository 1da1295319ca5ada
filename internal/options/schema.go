package options

import (
	"strings"

	"github.com/treefdw/treefdw/internal/treeio"
)

// Attr is one externally-typed column of a foreign table's declared
// schema.
type Attr struct {
	Name string
	Type treeio.AttrType
}

// Schema is the ordered attribute list of one foreign table:
// the declared attributes in declaration order, then the synthetic
// <tree>_id identifier, then <collection>_id when in collection mode.
type Schema struct {
	attrs []*Attr
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{}
}

// Add appends an attribute.
func (s *Schema) Add(name string, typ treeio.AttrType) {
	s.attrs = append(s.attrs, &Attr{Name: name, Type: typ})
}

// Len returns the attribute count, synthetic columns included.
func (s *Schema) Len() int {
	return len(s.attrs)
}

// Attrs returns the attributes in schema order. The returned slice is
// shared; callers must not mutate it.
func (s *Schema) Attrs() []*Attr {
	return s.attrs
}

// Find returns the attribute matching name case-insensitively, or nil.
func (s *Schema) Find(name string) *Attr {
	for _, a := range s.attrs {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}
