// Package migrations embeds the SQL migration files so the migrate
// command ships self-contained.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
