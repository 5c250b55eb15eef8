// Package migrations embeds the SQL schema applied at startup by the postgres backend.
package migrations

import "embed"

// FS holds the numbered up/down migration files.
//
//go:embed *.sql
var FS embed.FS
