// Package postgres embeds the goose migrations for PostgreSQL.
package postgres

import "embed"

// FS contiene los .sql de goose en la raíz.
//
//go:embed *.sql
var FS embed.FS
