// Package ddl renders CREATE TABLE statements for the SQL sinks and the
// identifier quoting shared by their INSERT paths.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the per-database differences the importer cares about.
type Dialect struct {
	Name string

	// Quote quotes one identifier segment.
	Quote func(string) string

	TextType string
	KeyType  string

	// IfNotExists selects CREATE TABLE IF NOT EXISTS. Dialects without it
	// get an OBJECT_ID guard instead.
	IfNotExists bool
}

// Supported dialects.
var (
	Postgres = Dialect{Name: "postgres", Quote: QuoteDouble, TextType: "TEXT", KeyType: "TEXT", IfNotExists: true}
	SQLite   = Dialect{Name: "sqlite", Quote: QuoteDouble, TextType: "TEXT", KeyType: "TEXT", IfNotExists: true}
	MySQL    = Dialect{Name: "mysql", Quote: QuoteBacktick, TextType: "TEXT", KeyType: "VARCHAR(64)", IfNotExists: true}
	MSSQL    = Dialect{Name: "mssql", Quote: QuoteBracket, TextType: "NVARCHAR(MAX)", KeyType: "NVARCHAR(64)"}
)

// QuoteDouble quotes an ANSI identifier: weird"id -> "weird""id".
func QuoteDouble(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteBacktick quotes a MySQL identifier.
func QuoteBacktick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// QuoteBracket quotes a SQL Server identifier: weird]id -> [weird]]id].
func QuoteBracket(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// QuoteFQN quotes each dotted segment of name with d.Quote. Empty segments
// are dropped.
func (d Dialect) QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.Quote(p))
	}
	return strings.Join(out, ".")
}

// QuoteAll quotes each column name.
func (d Dialect) QuoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.Quote(c)
	}
	return out
}

// BuildCreateTableSQL renders an idempotent CREATE TABLE for t. Primary-key
// columns are always NOT NULL and listed in a trailing PRIMARY KEY clause.
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s ddl: column %s missing SQLType", d.Name, name)
		}

		def := d.Quote(name) + " " + typ
		if !c.Nullable || c.PrimaryKey {
			def += " NOT NULL"
		}
		cols = append(cols, def)

		if c.PrimaryKey {
			pks = append(pks, d.Quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	quoted := d.QuoteFQN(fqn)
	if d.IfNotExists {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", quoted, strings.Join(cols, ",\n  ")), nil
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(quoted, "'", "''"),
		quoted,
		strings.Join(cols, ",\n    "),
	), nil
}
