// Package scan drives one execution of a foreign scan: it owns the
// external reader's cursor and converts each advance into typed values
// placed where the host's output tuple expects them.
package scan

import (
	"go.uber.org/zap"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/logutil"
	"github.com/treefdw/treefdw/internal/plan"
	"github.com/treefdw/treefdw/internal/treeio"
)

// Cursor is the execution state of one foreign scan. It is not
// shareable: concurrent scans of the same table each open their own
// Cursor from the shared ScanPlan.
type Cursor struct {
	cur treeio.Cursor

	// fetch-order declared types and output tuple positions, one entry
	// per projected attribute.
	types     []treeio.AttrType
	positions []int

	closed bool
}

// Open derives a fresh cursor from a scan plan: it allocates an
// external cursor sized to the projection, registers every projected
// attribute at its fetch-order index, and opens the cursor for
// iteration. On any failure the external cursor is released.
func Open(p *plan.ScanPlan) (*Cursor, error) {
	nattrs := len(p.Projection)

	cur, err := p.Table.NewCursor(nattrs)
	if err != nil {
		return nil, fdwerr.Internalf("failed to initialize tree cursor: %v", err)
	}

	types := make([]treeio.AttrType, nattrs)
	positions := make([]int, nattrs)
	for i, entry := range p.Projection {
		types[i] = entry.Attr.Type
		positions[i] = entry.TuplePos
		if err := cur.SetAttr(i, entry.Attr.Name, entry.Attr.Type); err != nil {
			cur.Close()
			return nil, fdwerr.Internalf("failed to add attribute %s to tree cursor: %v", entry.Attr.Name, err)
		}
	}

	if err := cur.Open(); err != nil {
		cur.Close()
		return nil, fdwerr.Internalf("failed to open tree cursor: %v", err)
	}

	logutil.Debug("scan cursor opened",
		zap.String("table", p.Table.Name()),
		zap.Int("nattrs", nattrs))

	return &Cursor{cur: cur, types: types, positions: positions}, nil
}

// Next advances the scan one row. It clears the slot first; on a row it
// writes each fetched value into its tuple position and stores the
// slot, on exhaustion it leaves the slot empty and returns false.
// Columns outside the projection stay null and unwritten.
func (c *Cursor) Next(slot *host.TupleSlot) (bool, error) {
	slot.Clear()

	if c.closed {
		return false, fdwerr.Internalf("advance on a closed tree cursor")
	}
	if !c.cur.Advance() {
		return false, nil
	}

	for i, typ := range c.types {
		pos := c.positions[i]
		switch typ {
		case treeio.TreeID:
			slot.Set(pos, c.cur.TreeID(i))
		case treeio.CollectionID:
			slot.Set(pos, c.cur.CollectionID(i))
		case treeio.Int32:
			slot.Set(pos, c.cur.Int(i))
		case treeio.UInt32:
			slot.Set(pos, c.cur.Uint(i))
		case treeio.Float64:
			slot.Set(pos, c.cur.Float(i))
		case treeio.Bool:
			slot.Set(pos, c.cur.Bool(i))
		default:
			// Declared types are validated at option resolution, so an
			// unknown tag here is a schema-sync bug.
			c.Close()
			return false, fdwerr.Internalf("invalid tree attribute type found")
		}
	}

	slot.Store()
	return true, nil
}

// Close releases the external cursor. Safe to call more than once; the
// underlying release happens only on the first call.
func (c *Cursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cur.Close()
}
