// Package domain holds the target schema for imported businesses.
package domain

// Column names of the business_info table, in insert order.
const (
	ColBusinessID = "business_id"
	ColName       = "name"
	ColAddress    = "address"
	ColCity       = "city"
	ColState      = "state"
)

// DefaultTable is the remote table the importer writes to.
const DefaultTable = "business_info"

// Columns is the fixed projection every BusinessRecord is reduced to.
var Columns = []string{ColBusinessID, ColName, ColAddress, ColCity, ColState}

// BusinessRecord is one row of business_info. Nil text fields are explicit
// nulls and serialize as JSON null / SQL NULL.
type BusinessRecord struct {
	BusinessID string  `json:"business_id"`
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
}

// Values returns the record aligned to Columns, with nil for null fields.
func (b BusinessRecord) Values() []any {
	return []any{b.BusinessID, nullable(b.Name), nullable(b.Address), nullable(b.City), nullable(b.State)}
}

// Rows converts a batch into positional rows aligned to Columns.
func Rows(batch []BusinessRecord) [][]any {
	out := make([][]any, len(batch))
	for i, b := range batch {
		out[i] = b.Values()
	}
	return out
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
