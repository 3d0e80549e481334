// Package migrations содержит SQL-миграции схемы для реляционных хранилищ
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
