// Package migrations embeds the schema migrations so the migrate binary
// ships without external files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
