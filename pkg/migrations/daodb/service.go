// Package daodb holds the schema migrations of the governance database.
package daodb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the governance database.
var Migrations = migrate.NewMigrations()
