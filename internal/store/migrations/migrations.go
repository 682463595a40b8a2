// Package migrations embeds the goose migrations of both store backends.
package migrations

import "embed"

// FS holds one directory of migrations per SQL dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
