package migrations

import "embed"

// FS contains embedded SQLite migrations for shelter storage.
//
//go:embed *.sql
var FS embed.FS
