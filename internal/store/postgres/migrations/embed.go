package migrations

import "embed"

// FS contains the embedded postgres schema.
//
//go:embed *.sql
var FS embed.FS
