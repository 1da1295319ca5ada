// Package treeio defines the boundary to the external tree-file reader
// library. The adapter only consumes these interfaces; how a reader
// parses its on-disk format is not its concern.
package treeio

import "errors"

// ErrNotFound is returned by Shard.Table when the shard holds no tree
// or collection with the requested name.
var ErrNotFound = errors.New("treeio: table not found")

// OpenFunc initializes a reader context over the data files of one
// shard. A failed initialization aborts the resolution that needed it.
type OpenFunc func(files []string) (Shard, error)

// Shard is a reader context over one shard's file set.
type Shard interface {
	// Table looks up the named tree, or collection of trees when
	// isCollection is set. Returns ErrNotFound if absent.
	Table(name string, isCollection bool) (Table, error)
}

// Table is a handle on one tree or collection inside a shard. Handles
// are read-only and safe to share between concurrent scans; each scan
// derives its own Cursor.
type Table interface {
	Name() string

	// ApproxRowCount reports the reader's estimate of the total number
	// of rows. It is a metadata lookup, not a scan.
	ApproxRowCount() int64

	// NewCursor allocates a cursor sized to nattrs attributes. The
	// cursor is unusable until every attribute slot is registered and
	// Open has been called.
	NewCursor(nattrs int) (Cursor, error)
}

// Cursor is a stateful, position-tracking reader over one table. The
// lifecycle is: SetAttr for each index in [0, nattrs), Open, Advance
// until it returns false, Close. Close is required on every exit path.
type Cursor interface {
	// SetAttr registers the external attribute fetched at index i.
	SetAttr(i int, name string, typ AttrType) error

	// Open readies the cursor for iteration.
	Open() error

	// Advance moves to the next row, reporting whether one exists.
	Advance() bool

	// Typed accessors for the current row, addressed by registered
	// attribute index. Only valid after Advance returned true, and only
	// for an index whose registered type matches the accessor.
	Int(i int) int32
	Uint(i int) uint32
	Float(i int) float64
	Bool(i int) bool
	TreeID(i int) int64
	CollectionID(i int) int32

	// Close releases the cursor's resources. Safe to call more than
	// once; only the first call releases.
	Close()
}
