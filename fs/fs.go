// Package appfs embeds the files shipped inside the binaries.
package appfs

import "embed"

// MigrationsDir is the directory of the goose migrations inside FS.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var FS embed.FS
