package migrations

import "embed"

// FS contains the embedded sqlite schema.
//
//go:embed *.sql
var FS embed.FS
