package migrations

import "embed"

// FS contains embedded SQLite migrations for assign storage.
//
//go:embed *.sql
var FS embed.FS
