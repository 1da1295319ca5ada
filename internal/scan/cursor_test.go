package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/options"
	"github.com/treefdw/treefdw/internal/plan"
	"github.com/treefdw/treefdw/internal/treeio"
)

// stubCursor counts lifecycle calls and serves canned rows keyed by
// registered attribute index.
type stubCursor struct {
	nattrs     int
	registered []string
	rows       int
	pos        int

	setAttrErr error
	openErr    error

	opens  int
	closes int
}

func (c *stubCursor) SetAttr(i int, name string, typ treeio.AttrType) error {
	if c.setAttrErr != nil {
		return c.setAttrErr
	}
	c.registered = append(c.registered, name)
	return nil
}

func (c *stubCursor) Open() error {
	if c.openErr != nil {
		return c.openErr
	}
	c.opens++
	c.pos = 0
	return nil
}

func (c *stubCursor) Advance() bool {
	if c.pos >= c.rows {
		return false
	}
	c.pos++
	return true
}

func (c *stubCursor) Int(i int) int32          { return int32(10*c.pos + i) }
func (c *stubCursor) Uint(i int) uint32        { return uint32(100*c.pos + i) }
func (c *stubCursor) Float(i int) float64      { return float64(c.pos) + 0.5 }
func (c *stubCursor) Bool(i int) bool          { return c.pos%2 == 1 }
func (c *stubCursor) TreeID(i int) int64       { return int64(1000 + c.pos) }
func (c *stubCursor) CollectionID(i int) int32 { return int32(2000 + c.pos) }

func (c *stubCursor) Close() {
	c.closes++
}

type stubTable struct {
	cursor    *stubCursor
	cursorErr error
}

func (t *stubTable) Name() string          { return "stub" }
func (t *stubTable) ApproxRowCount() int64 { return int64(t.cursor.rows) }

func (t *stubTable) NewCursor(nattrs int) (treeio.Cursor, error) {
	if t.cursorErr != nil {
		return nil, t.cursorErr
	}
	t.cursor.nattrs = nattrs
	return t.cursor, nil
}

func scanPlan(tbl treeio.Table, entries ...plan.ProjectionEntry) *plan.ScanPlan {
	return &plan.ScanPlan{Table: tbl, Projection: entries}
}

func TestCursor_ProjectedColumnsOnly(t *testing.T) {
	stub := &stubCursor{rows: 2}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Int32}, TuplePos: 0},
	)

	c, err := Open(p)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"x"}, stub.registered)
	assert.Equal(t, 1, stub.opens)

	// Output tuple is wider than the projection; only position 0 may be
	// written, every other column stays null.
	slot := host.NewTupleSlot(3)
	ok, err := c.Next(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, slot.IsEmpty())
	assert.False(t, slot.IsNull(0))
	assert.Equal(t, int32(10), slot.Get(0))
	assert.True(t, slot.IsNull(1))
	assert.True(t, slot.IsNull(2))
}

func TestCursor_TypedConversions(t *testing.T) {
	stub := &stubCursor{rows: 1}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "a", Type: treeio.Int32}, TuplePos: 0},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "b", Type: treeio.UInt32}, TuplePos: 1},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "c", Type: treeio.Float64}, TuplePos: 2},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "d", Type: treeio.Bool}, TuplePos: 3},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "t_id", Type: treeio.TreeID}, TuplePos: 4},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "e_id", Type: treeio.CollectionID}, TuplePos: 5},
	)

	c, err := Open(p)
	require.NoError(t, err)
	defer c.Close()

	slot := host.NewTupleSlot(6)
	ok, err := c.Next(slot)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int32(10), slot.Get(0))
	assert.Equal(t, uint32(101), slot.Get(1))
	assert.Equal(t, 1.5, slot.Get(2))
	assert.Equal(t, true, slot.Get(3))
	assert.Equal(t, int64(1001), slot.Get(4))
	assert.Equal(t, int32(2001), slot.Get(5))
}

func TestCursor_FetchOrderMapsToTuplePositions(t *testing.T) {
	// Fetch order differs from tuple order: the first fetched attribute
	// lands at tuple position 2, the second at position 0.
	stub := &stubCursor{rows: 1}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "a", Type: treeio.Int32}, TuplePos: 2},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "b", Type: treeio.Int32}, TuplePos: 0},
	)

	c, err := Open(p)
	require.NoError(t, err)
	defer c.Close()

	slot := host.NewTupleSlot(3)
	ok, err := c.Next(slot)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int32(10), slot.Get(2)) // fetch index 0
	assert.Equal(t, int32(11), slot.Get(0)) // fetch index 1
	assert.True(t, slot.IsNull(1))
}

func TestCursor_ExhaustionLeavesSlotEmpty(t *testing.T) {
	stub := &stubCursor{rows: 1}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Int32}, TuplePos: 0},
	)

	c, err := Open(p)
	require.NoError(t, err)
	defer c.Close()

	slot := host.NewTupleSlot(1)

	ok, err := c.Next(slot)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Next(slot)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, slot.IsEmpty())
}

func TestCursor_CloseIsIdempotent(t *testing.T) {
	stub := &stubCursor{rows: 0}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Int32}, TuplePos: 0},
	)

	c, err := Open(p)
	require.NoError(t, err)

	c.Close()
	c.Close()
	assert.Equal(t, 1, stub.closes)

	// No advancing after close.
	slot := host.NewTupleSlot(1)
	_, err = c.Next(slot)
	require.Error(t, err)
	assert.True(t, fdwerr.IsInternal(err))
}

func TestCursor_InvalidTypeTagAbortsAndReleases(t *testing.T) {
	stub := &stubCursor{rows: 1}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Invalid}, TuplePos: 0},
	)

	c, err := Open(p)
	require.NoError(t, err)

	slot := host.NewTupleSlot(1)
	_, err = c.Next(slot)
	require.Error(t, err)
	assert.True(t, fdwerr.IsInternal(err))
	assert.Equal(t, 1, stub.closes)
}

func TestOpen_RegistrationFailureReleasesCursor(t *testing.T) {
	stub := &stubCursor{setAttrErr: errors.New("no such branch")}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Int32}, TuplePos: 0},
	)

	_, err := Open(p)
	require.Error(t, err)
	assert.True(t, fdwerr.IsInternal(err))
	assert.Equal(t, 1, stub.closes)
}

func TestOpen_CursorOpenFailureReleasesCursor(t *testing.T) {
	stub := &stubCursor{openErr: errors.New("io error")}
	p := scanPlan(&stubTable{cursor: stub},
		plan.ProjectionEntry{Attr: &options.Attr{Name: "x", Type: treeio.Int32}, TuplePos: 0},
	)

	_, err := Open(p)
	require.Error(t, err)
	assert.True(t, fdwerr.IsInternal(err))
	assert.Equal(t, 1, stub.closes)
}

func TestOpen_CursorAllocationFailure(t *testing.T) {
	p := scanPlan(&stubTable{cursor: &stubCursor{}, cursorErr: errors.New("out of readers")})

	_, err := Open(p)
	require.Error(t, err)
	assert.True(t, fdwerr.IsInternal(err))
}
