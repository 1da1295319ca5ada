package host

// TupleSlot is the host's virtual output tuple: a value and a null flag
// per column. The fill protocol is Clear, then Set for each produced
// column, then Store; skipping Store leaves the slot empty, which is
// how a scan signals exhaustion.
type TupleSlot struct {
	values []any
	nulls  []bool
	empty  bool
}

// NewTupleSlot allocates a slot for width columns.
func NewTupleSlot(width int) *TupleSlot {
	s := &TupleSlot{
		values: make([]any, width),
		nulls:  make([]bool, width),
	}
	s.Clear()
	return s
}

// Clear empties the slot and marks every column null.
func (s *TupleSlot) Clear() {
	for i := range s.values {
		s.values[i] = nil
		s.nulls[i] = true
	}
	s.empty = true
}

// Set writes a value at tuple position pos and marks it non-null.
func (s *TupleSlot) Set(pos int, v any) {
	s.values[pos] = v
	s.nulls[pos] = false
}

// Store marks the slot as holding a complete row.
func (s *TupleSlot) Store() {
	s.empty = false
}

// IsEmpty reports whether the slot holds no row.
func (s *TupleSlot) IsEmpty() bool {
	return s.empty
}

// IsNull reports whether the column at pos is null or absent.
func (s *TupleSlot) IsNull(pos int) bool {
	return s.nulls[pos]
}

// Get returns the value at pos; nil when the column is null.
func (s *TupleSlot) Get(pos int) any {
	return s.values[pos]
}

// Width returns the slot's column count.
func (s *TupleSlot) Width() int {
	return len(s.values)
}
