// Package migrations embeds the SQL files that provision the events table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
