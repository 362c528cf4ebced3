// Package migrations embeds goose SQL migrations for the combat journal.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
