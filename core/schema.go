package core

import (
	"fmt"

	"github.com/kndndrj/mysql-fdw/core/types"
)

// Attribute describes one column of the local table layout.
type Attribute struct {
	Name string
	Type *types.Type
	// Length is the declared type modifier, -1 when absent.
	Length int
	// Dropped attributes keep their slot in the tuple but never consume a
	// remote field; they are always NULL.
	Dropped bool
}

// Category returns the type category of the attribute.
func (a *Attribute) Category() types.Category {
	if a.Type == nil {
		return 0
	}
	return a.Type.Category
}

// Input converts a non-null raw value for this attribute.
func (a *Attribute) Input(raw []byte) (any, error) {
	return a.Type.Input(raw, a.Length)
}

// Schema is the ordered attribute list of a foreign table.
type Schema struct {
	Attrs []*Attribute
}

// ColumnDef is the declarative form of an attribute.
type ColumnDef struct {
	Name    string
	Type    string
	Dropped bool
}

// NewSchema resolves the declared column types. Dropped columns may leave
// the type empty.
func NewSchema(columns ...ColumnDef) (*Schema, error) {
	s := &Schema{Attrs: make([]*Attribute, 0, len(columns))}

	for i, col := range columns {
		attr := &Attribute{
			Name:    col.Name,
			Length:  -1,
			Dropped: col.Dropped,
		}
		if attr.Name == "" {
			attr.Name = fmt.Sprintf("column_%d", i+1)
		}

		if !col.Dropped || col.Type != "" {
			typ, length, err := types.Lookup(col.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q: %w", ErrConfig, attr.Name, err)
			}
			attr.Type = typ
			attr.Length = length
		}

		s.Attrs = append(s.Attrs, attr)
	}

	return s, nil
}

// Len returns the number of tuple slots, dropped attributes included.
func (s *Schema) Len() int {
	return len(s.Attrs)
}

// LiveLen returns the number of attributes that consume a remote field.
func (s *Schema) LiveLen() int {
	n := 0
	for _, a := range s.Attrs {
		if !a.Dropped {
			n++
		}
	}
	return n
}

// Header lists attribute names in slot order.
func (s *Schema) Header() Header {
	h := make(Header, len(s.Attrs))
	for i, a := range s.Attrs {
		h[i] = a.Name
	}
	return h
}
