package host

import mapset "github.com/deckarep/golang-set/v2"

// ColumnUsage records which zero-based column ordinals of a relation a
// query references. A whole-row reference subsumes every column.
type ColumnUsage struct {
	cols     mapset.Set[int]
	wholeRow bool
}

// NewColumnUsage returns an empty usage set.
func NewColumnUsage() *ColumnUsage {
	return &ColumnUsage{cols: mapset.NewSet[int]()}
}

// AddColumn marks the column at ordinal pos as referenced.
func (u *ColumnUsage) AddColumn(pos int) {
	u.cols.Add(pos)
}

// AddWholeRow marks a whole-row reference.
func (u *ColumnUsage) AddWholeRow() {
	u.wholeRow = true
}

// WholeRow reports whether a whole-row reference was recorded.
func (u *ColumnUsage) WholeRow() bool {
	return u.wholeRow
}

// Uses reports whether the column at ordinal pos must be fetched.
func (u *ColumnUsage) Uses(pos int) bool {
	return u.wholeRow || u.cols.Contains(pos)
}

// Empty reports whether nothing at all is referenced.
func (u *ColumnUsage) Empty() bool {
	return !u.wholeRow && u.cols.Cardinality() == 0
}
