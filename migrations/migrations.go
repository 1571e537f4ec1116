// Package migrations embeds the SQL schema files for the SQLite record store.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
