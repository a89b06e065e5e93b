package cursor

// Row is a materialised row projected onto a chosen subset of columns
// (all columns when none are named). Column order mirrors the table's
// declared column order, not the order column names were requested in.
type Row struct {
	order  []string
	values map[string]interface{}
}

func newRow(columns []string, values []interface{}, want []string) Row {
	var wantSet map[string]bool
	if len(want) > 0 {
		wantSet = make(map[string]bool, len(want))
		for _, name := range want {
			wantSet[name] = true
		}
	}
	order := make([]string, 0, len(columns))
	vals := make(map[string]interface{}, len(columns))
	for i, name := range columns {
		if wantSet != nil && !wantSet[name] {
			continue
		}
		order = append(order, name)
		vals[name] = values[i]
	}
	return Row{order: order, values: vals}
}

// Columns returns the row's column names in table-declared order.
func (r Row) Columns() []string {
	return r.order
}

// Value returns the named column's value and whether it was present in
// this row's projection.
func (r Row) Value(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of columns in this row's projection.
func (r Row) Len() int {
	return len(r.order)
}
