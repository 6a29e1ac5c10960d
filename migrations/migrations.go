// Package migrations embeds the schema migrations for every supported storage engine.
package migrations

import "embed"

// Directories inside FS, one per storage engine.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
