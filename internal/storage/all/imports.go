// Package all wires all built-in storage backends into the storage factory.
//
// It exists purely for side effects: importing it runs each backend's init,
// which registers its factory and DDL bootstrapper with the storage package.
// After
//
//	import _ "jobetl/internal/storage/all"
//
// the kinds "postgres", "sqlite", "mysql" and "mssql" are available to
// storage.New, storage.ReplaceTable and storage.Replace.
package all

import (
	_ "jobetl/internal/storage/mssql"
	_ "jobetl/internal/storage/mysql"
	_ "jobetl/internal/storage/postgres"
	_ "jobetl/internal/storage/sqlite"
)
