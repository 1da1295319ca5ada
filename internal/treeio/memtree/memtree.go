// Package memtree is an in-memory implementation of the treeio reader
// boundary. It backs the test suite and the inspection CLI; a real
// tree-file reader binds the same interfaces elsewhere.
package memtree

import (
	"fmt"
	"strings"

	"github.com/treefdw/treefdw/internal/treeio"
)

// Column is one declared data column of an in-memory table.
type Column struct {
	Name string
	Type treeio.AttrType
}

// row carries the data values plus the synthetic identifiers a cursor
// can be asked for.
type row struct {
	treeID       int64
	collectionID int32
	values       []any
}

// Table is an in-memory tree or collection.
type Table struct {
	name         string
	isCollection bool
	cols         []Column
	rows         []row
	nextTreeID   int64
}

// NewTable builds an empty table. Set isCollection for tables that are
// looked up as collections of trees.
func NewTable(name string, isCollection bool, cols ...Column) *Table {
	return &Table{name: name, isCollection: isCollection, cols: cols}
}

// Append adds one row with auto-assigned tree identifier and a zero
// collection identifier. Values must match the declared column types.
func (t *Table) Append(values ...any) error {
	id := t.nextTreeID
	t.nextTreeID++
	return t.AppendRow(id, 0, values...)
}

// AppendRow adds one row with explicit synthetic identifiers.
func (t *Table) AppendRow(treeID int64, collectionID int32, values ...any) error {
	if len(values) != len(t.cols) {
		return fmt.Errorf("memtree: table %s has %d columns, got %d values",
			t.name, len(t.cols), len(values))
	}
	stored := make([]any, len(values))
	for i, v := range values {
		cv, err := coerce(v, t.cols[i].Type)
		if err != nil {
			return fmt.Errorf("memtree: table %s column %s: %w", t.name, t.cols[i].Name, err)
		}
		stored[i] = cv
	}
	t.rows = append(t.rows, row{treeID: treeID, collectionID: collectionID, values: stored})
	if treeID >= t.nextTreeID {
		t.nextTreeID = treeID + 1
	}
	return nil
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) ApproxRowCount() int64 {
	return int64(len(t.rows))
}

// NewCursor allocates a cursor with nattrs unregistered attribute
// slots.
func (t *Table) NewCursor(nattrs int) (treeio.Cursor, error) {
	if nattrs < 0 {
		return nil, fmt.Errorf("memtree: negative attribute count %d", nattrs)
	}
	return &cursor{table: t, attrs: make([]binding, nattrs), pos: -1}, nil
}

// binding records what one cursor attribute slot reads: a data column
// index, or a synthetic identifier when col is negative.
type binding struct {
	set bool
	typ treeio.AttrType
	col int
}

type cursor struct {
	table  *Table
	attrs  []binding
	opened bool
	pos    int
	closed bool
}

func (c *cursor) SetAttr(i int, name string, typ treeio.AttrType) error {
	if i < 0 || i >= len(c.attrs) {
		return fmt.Errorf("memtree: attribute index %d out of range", i)
	}
	switch typ {
	case treeio.TreeID, treeio.CollectionID:
		c.attrs[i] = binding{set: true, typ: typ, col: -1}
		return nil
	}
	for col, column := range c.table.cols {
		if strings.EqualFold(column.Name, name) {
			if column.Type != typ {
				return fmt.Errorf("memtree: attribute %s is %s, registered as %s",
					name, column.Type, typ)
			}
			c.attrs[i] = binding{set: true, typ: typ, col: col}
			return nil
		}
	}
	return fmt.Errorf("memtree: table %s has no attribute %s", c.table.name, name)
}

func (c *cursor) Open() error {
	for i, b := range c.attrs {
		if !b.set {
			return fmt.Errorf("memtree: attribute slot %d not registered", i)
		}
	}
	c.opened = true
	c.pos = -1
	return nil
}

func (c *cursor) Advance() bool {
	if !c.opened || c.closed {
		return false
	}
	if c.pos+1 >= len(c.table.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) current() row {
	return c.table.rows[c.pos]
}

func (c *cursor) Int(i int) int32 {
	return c.current().values[c.attrs[i].col].(int32)
}

func (c *cursor) Uint(i int) uint32 {
	return c.current().values[c.attrs[i].col].(uint32)
}

func (c *cursor) Float(i int) float64 {
	return c.current().values[c.attrs[i].col].(float64)
}

func (c *cursor) Bool(i int) bool {
	return c.current().values[c.attrs[i].col].(bool)
}

func (c *cursor) TreeID(i int) int64 {
	return c.current().treeID
}

func (c *cursor) CollectionID(i int) int32 {
	return c.current().collectionID
}

func (c *cursor) Close() {
	c.closed = true
}

// Shard is an in-memory shard context holding trees and collections in
// separate namespaces, mirroring the reader's lookup flag.
type Shard struct {
	trees       map[string]*Table
	collections map[string]*Table
}

// NewShard returns an empty shard.
func NewShard() *Shard {
	return &Shard{
		trees:       make(map[string]*Table),
		collections: make(map[string]*Table),
	}
}

// AddTable registers a table under its namespace.
func (s *Shard) AddTable(t *Table) {
	if t.isCollection {
		s.collections[t.name] = t
	} else {
		s.trees[t.name] = t
	}
}

func (s *Shard) Table(name string, isCollection bool) (treeio.Table, error) {
	ns := s.trees
	if isCollection {
		ns = s.collections
	}
	t, ok := ns[name]
	if !ok {
		return nil, treeio.ErrNotFound
	}
	return t, nil
}

// coerce converts an input value to the stored representation of one
// attribute type. Inputs may be native Go literals or the wider types a
// fixture decoder produces (int64, float64).
func coerce(v any, typ treeio.AttrType) (any, error) {
	switch typ {
	case treeio.Int32:
		switch n := v.(type) {
		case int:
			return int32(n), nil
		case int32:
			return n, nil
		case int64:
			return int32(n), nil
		}
	case treeio.UInt32:
		switch n := v.(type) {
		case int:
			return uint32(n), nil
		case uint32:
			return n, nil
		case int64:
			return uint32(n), nil
		}
	case treeio.Float64:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case treeio.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("cannot store %T as %s", v, typ)
}
