// Package records defines the untyped row shape shared by the reader and the
// transformer.
package records

// Record is one decoded source row keyed by normalized header name. Values
// are either a string or nil when the cell held a missing/NA marker.
type Record map[string]any

// Has reports whether the column is present in the row, regardless of value.
func (r Record) Has(col string) bool {
	_, ok := r[col]
	return ok
}
