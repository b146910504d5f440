// Package migrations embeds the SQL schema migrations for every supported dialect
package migrations

import "embed"

// FS holds one directory of migrations per driver: mysql/ and sqlite/
//
//go:embed mysql/*.sql sqlite/*.sql
var FS embed.FS
