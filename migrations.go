package minegrid

import "embed"

// Migrations holds the SQL schema, applied by cmd/migrator and on server
// start.
//
//go:embed migrations/*.sql
var Migrations embed.FS
