// Package all registers every built-in storage backend. Import it for side
// effects:
//
//	import _ "bizimport/internal/storage/all"
//
// Kinds made available: supabase, postgres, sqlite, mysql, mssql.
package all

import (
	_ "bizimport/internal/storage/mssql"
	_ "bizimport/internal/storage/mysql"
	_ "bizimport/internal/storage/postgres"
	_ "bizimport/internal/storage/sqlite"
	_ "bizimport/internal/storage/supabase"
)
