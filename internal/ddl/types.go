package ddl

import "bizimport/internal/domain"

// ColumnDef describes one column. Name is unquoted; quoting happens when the
// statement is rendered for a dialect.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef is a dotted table name (e.g. "public.business_info") plus its
// ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// BusinessTable returns the business_info layout for d: business_id is a
// non-null primary key of d.KeyType, every other column is nullable d.TextType.
func BusinessTable(fqn string, d Dialect) TableDef {
	cols := make([]ColumnDef, 0, len(domain.Columns))
	for _, c := range domain.Columns {
		if c == domain.ColBusinessID {
			cols = append(cols, ColumnDef{Name: c, SQLType: d.KeyType, PrimaryKey: true})
			continue
		}
		cols = append(cols, ColumnDef{Name: c, SQLType: d.TextType, Nullable: true})
	}
	return TableDef{FQN: fqn, Columns: cols}
}
