package migrations

import "embed"

// Migration files are bundled at compile time so a single binary deploys
// without external schema files.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
