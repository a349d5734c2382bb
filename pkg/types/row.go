// pkg/types/row.go
package types

// Row is an ordered mapping of column name to Value. Column insertion
// order is preserved for display; lookups are by name.
type Row struct {
	cols []string
	vals map[string]Value
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{vals: make(map[string]Value)}
}

// RowOf builds a row from alternating column/value pairs, keeping the
// given order.
func RowOf(pairs ...any) *Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return r
}

// Set stores a value under col, appending the column on first use.
func (r *Row) Set(col string, v Value) {
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Get returns the value for col and whether the column exists.
func (r *Row) Get(col string) (Value, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Value returns the value for col, or NULL when absent.
func (r *Row) Value(col string) Value {
	if v, ok := r.vals[col]; ok {
		return v
	}
	return NewNull()
}

// Has reports whether the row carries the column.
func (r *Row) Has(col string) bool {
	_, ok := r.vals[col]
	return ok
}

// Columns returns the column names in insertion order.
func (r *Row) Columns() []string {
	return r.cols
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.cols)
}

// Clone returns an independent copy of the row.
func (r *Row) Clone() *Row {
	out := &Row{
		cols: make([]string, len(r.cols)),
		vals: make(map[string]Value, len(r.vals)),
	}
	copy(out.cols, r.cols)
	for k, v := range r.vals {
		out.vals[k] = v
	}
	return out
}
