package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL_BusinessTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect Dialect
		fqn     string
		want    string
	}{
		{
			name:    "postgres",
			dialect: Postgres,
			fqn:     "public.business_info",
			want: "CREATE TABLE IF NOT EXISTS \"public\".\"business_info\" (\n" +
				"  \"business_id\" TEXT NOT NULL,\n" +
				"  \"name\" TEXT,\n" +
				"  \"address\" TEXT,\n" +
				"  \"city\" TEXT,\n" +
				"  \"state\" TEXT,\n" +
				"  PRIMARY KEY (\"business_id\")\n);",
		},
		{
			name:    "mysql",
			dialect: MySQL,
			fqn:     "business_info",
			want: "CREATE TABLE IF NOT EXISTS `business_info` (\n" +
				"  `business_id` VARCHAR(64) NOT NULL,\n" +
				"  `name` TEXT,\n" +
				"  `address` TEXT,\n" +
				"  `city` TEXT,\n" +
				"  `state` TEXT,\n" +
				"  PRIMARY KEY (`business_id`)\n);",
		},
		{
			name:    "mssql",
			dialect: MSSQL,
			fqn:     "dbo.business_info",
			want: "IF OBJECT_ID(N'[dbo].[business_info]', N'U') IS NULL\nBEGIN\n" +
				"  CREATE TABLE [dbo].[business_info] (\n" +
				"    [business_id] NVARCHAR(64) NOT NULL,\n" +
				"    [name] NVARCHAR(MAX),\n" +
				"    [address] NVARCHAR(MAX),\n" +
				"    [city] NVARCHAR(MAX),\n" +
				"    [state] NVARCHAR(MAX),\n" +
				"    PRIMARY KEY ([business_id])\n  );\nEND;",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(BusinessTable(tt.fqn, tt.dialect), tt.dialect)
			if err != nil {
				t.Fatalf("BuildCreateTableSQL: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		def     TableDef
		wantSub string
	}{
		{"empty fqn", TableDef{FQN: " ", Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}, "FQN must not be empty"},
		{"no columns", TableDef{FQN: "t"}, "at least one column"},
		{"empty column name", TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}, "empty name"},
		{"missing type", TableDef{FQN: "t", Columns: []ColumnDef{{Name: "a"}}}, "missing SQLType"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildCreateTableSQL(tt.def, SQLite)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("err = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    Dialect
		in   string
		want string
	}{
		{Postgres, `weird"name`, `"weird""name"`},
		{MySQL, "a`b", "`a``b`"},
		{MSSQL, "x]y", "[x]]y]"},
		{Postgres, "public..t", `"public"."t"`},
		{MSSQL, "dbo. business_info", "[dbo].[business_info]"},
	}
	for _, tt := range tests {
		if got := tt.d.QuoteFQN(tt.in); got != tt.want {
			t.Errorf("%s.QuoteFQN(%q) = %q, want %q", tt.d.Name, tt.in, got, tt.want)
		}
	}
}
